package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gokudragoo/stonepapersessior/server/models"
	"github.com/gokudragoo/stonepapersessior/shared"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
)

// Violações de contrato: abortam a operação inteira, sem mutação e sem envio.
var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrNotHost          = errors.New("only host can accept joins")
	ErrMatchNotJoinable = errors.New("match not joinable")
	ErrMatchFull        = errors.New("match full")
	ErrSelfJoin         = errors.New("cannot join own match")
	ErrMatchNotReady    = errors.New("match not ready")
	ErrAlreadyReady     = errors.New("already ready")
	ErrChoiceAlreadySet = errors.New("choice already set")
	ErrOpponentNotFound = errors.New("opponent not found")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrBadPayload       = errors.New("invalid payload")
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownMessage   = errors.New("unknown message type")
)

const DefaultQueueTTL = 5 * time.Minute

// Sender entrega uma mensagem na inbox de outro peer. Fire-and-forget:
// um erro aqui só diz que a publicação falhou localmente.
type Sender interface {
	Send(to string, msg shared.Message) error
}

// Store persiste o agregado do peer e o journal de tudo que foi processado.
type Store interface {
	SaveState(state *models.PeerState) error
	AppendJournal(data []byte, at time.Time) error
}

type Options struct {
	QueueTTL    time.Duration
	MailboxSize int
	Clock       clockwork.Clock
	Logger      hclog.Logger
}

type outbound struct {
	to  string
	msg shared.Message
}

type mailItem struct {
	cmd   *shared.Request
	msg   *shared.Message
	reply chan shared.Response
}

type journalEntry struct {
	Kind    string          `json:"kind"`
	Command *shared.Request `json:"command,omitempty"`
	Message *shared.Message `json:"message,omitempty"`
}

// Peer é o ator de um peer: um único escritor sobre o próprio estado.
// Os métodos de comando e HandleMessage não são seguros pra chamadas
// concorrentes; fora dos testes tudo passa pelo mailbox de Run.
type Peer struct {
	id       string
	state    *models.PeerState
	sender   Sender
	store    Store
	clock    clockwork.Clock
	logger   hclog.Logger
	queueTTL time.Duration

	mailbox chan mailItem
	outbox  []outbound
}

func NewPeer(id string, state *models.PeerState, sender Sender, store Store, opts Options) *Peer {
	if state == nil {
		state = models.NewPeerState()
	}
	if opts.QueueTTL <= 0 {
		opts.QueueTTL = DefaultQueueTTL
	}
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = 64
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &Peer{
		id:       id,
		state:    state,
		sender:   sender,
		store:    store,
		clock:    opts.Clock,
		logger:   opts.Logger,
		queueTTL: opts.QueueTTL,
		mailbox:  make(chan mailItem, opts.MailboxSize),
	}
}

func (p *Peer) ID() string { return p.id }

// State devolve uma cópia do estado atual
func (p *Peer) State() *models.PeerState { return p.state.Clone() }

// Run processa o mailbox até ctx acabar, um item por vez.
func (p *Peer) Run(ctx context.Context) error {
	p.logger.Info("peer running", "mailbox", cap(p.mailbox))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case it := <-p.mailbox:
			if it.msg != nil {
				if err := p.HandleMessage(*it.msg); err != nil {
					p.logger.Warn("inbound message rejected", "type", it.msg.Type, "from", it.msg.From, "error", err)
				}
				continue
			}
			it.reply <- p.Execute(*it.cmd)
		}
	}
}

// Deliver coloca uma mensagem recebida no mailbox
func (p *Peer) Deliver(ctx context.Context, msg shared.Message) error {
	select {
	case p.mailbox <- mailItem{msg: &msg}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit coloca um comando no mailbox e espera a resposta
func (p *Peer) Submit(ctx context.Context, req shared.Request) (shared.Response, error) {
	reply := make(chan shared.Response, 1)
	select {
	case p.mailbox <- mailItem{cmd: &req, reply: reply}:
	case <-ctx.Done():
		return shared.Response{}, ctx.Err()
	}
	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return shared.Response{}, ctx.Err()
	}
}

// Execute traduz um Request do command surface na operação correspondente.
func (p *Peer) Execute(req shared.Request) shared.Response {
	var (
		ack  string
		data json.RawMessage
		err  error
	)

	switch req.Action {
	case shared.ActionCreateMatch:
		var pl shared.CreateMatchPayload
		if err = decode(req.Payload, &pl); err == nil {
			ack, err = p.CreateMatch(pl.Name)
		}
	case shared.ActionJoinMatch:
		var pl shared.JoinMatchPayload
		if err = decode(req.Payload, &pl); err == nil {
			ack, err = p.JoinMatch(pl.HostPeer, pl.Name)
		}
	case shared.ActionSearchPlayer:
		var pl shared.SearchPlayerPayload
		if err = decode(req.Payload, &pl); err == nil {
			ack, err = p.SearchPlayer(pl.OrchestratorPeer, pl.Name)
		}
	case shared.ActionPickAndReady:
		var pl shared.PickAndReadyPayload
		if err = decode(req.Payload, &pl); err == nil {
			ack, err = p.PickAndReady(pl.Choice)
		}
	case shared.ActionLeaveMatch:
		ack, err = p.LeaveMatch()
	case shared.ActionView:
		data = mustMarshal(p.View())
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}

	if err != nil {
		p.logger.Debug("command failed", "action", req.Action, "client", req.ClientID, "error", err)
		return shared.Response{Status: "error", Action: req.Action, Error: err.Error(), Peer: p.id}
	}
	if data == nil {
		data = mustMarshal(ack)
	}
	return shared.Response{Status: "success", Action: req.Action, Data: data, Peer: p.id}
}

// HandleMessage processa uma mensagem de outro peer até o fim.
func (p *Peer) HandleMessage(msg shared.Message) error {
	return p.process(journalEntry{Kind: "message", Message: &msg}, func() error {
		return p.dispatch(msg)
	})
}

func (p *Peer) dispatch(msg shared.Message) error {
	switch msg.Type {
	case shared.MsgJoinRequest:
		var m shared.JoinRequest
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleJoinRequest(m)
	case shared.MsgInitialStateSync:
		var m shared.StateSync
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleStateSync(m, true)
	case shared.MsgGameSync:
		var m shared.StateSync
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleStateSync(m, false)
	case shared.MsgReadyNotice:
		var m shared.ReadyNotice
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleReadyNotice(m)
	case shared.MsgChoiceReveal:
		var m shared.ChoiceReveal
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleChoiceReveal(m)
	case shared.MsgLeaveNotice:
		var m shared.LeaveNotice
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleLeaveNotice(m)
	case shared.MsgMatchmakingEnqueue:
		var m shared.MatchmakingEnqueue
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleMatchmakingEnqueue(m)
	case shared.MsgMatchmakingQueued:
		var m shared.MatchmakingEnqueued
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleMatchmakingEnqueued(m)
	case shared.MsgMatchmakingStart:
		var m shared.MatchmakingStart
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleMatchmakingStart(m)
	case shared.MsgMatchmakingFound:
		var m shared.MatchmakingFound
		if err := decode(msg.Data, &m); err != nil {
			return err
		}
		return p.handleMatchmakingFound(m)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Type)
	}
}

// runCommand envolve um comando local: journal, persistência e envio
func (p *Peer) runCommand(action string, payload any, fn func() (string, error)) (string, error) {
	req := shared.Request{Action: action}
	if payload != nil {
		req.Payload = mustMarshal(payload)
	}
	var ack string
	err := p.process(journalEntry{Kind: "command", Command: &req}, func() error {
		var err error
		ack, err = fn()
		return err
	})
	if err != nil {
		return "", err
	}
	return ack, nil
}

// process: lê -> muta -> persiste -> journal -> envia. Se fn falhar o
// estado volta ao que era e nada sai do outbox.
func (p *Peer) process(entry journalEntry, fn func() error) error {
	before := p.state.Clone()
	p.outbox = nil

	if err := fn(); err != nil {
		p.state = before
		p.outbox = nil
		return err
	}

	if p.store != nil {
		if err := p.store.SaveState(p.state); err != nil {
			p.state = before
			p.outbox = nil
			return fmt.Errorf("persist state: %w", err)
		}
		// só entra no journal o que foi de fato aplicado
		if err := p.store.AppendJournal(mustMarshal(entry), p.clock.Now()); err != nil {
			p.logger.Error("journal append failed", "error", err)
		}
	}

	out := p.outbox
	p.outbox = nil
	for _, o := range out {
		if p.sender == nil {
			break
		}
		if err := p.sender.Send(o.to, o.msg); err != nil {
			p.logger.Error("send failed", "to", o.to, "type", o.msg.Type, "error", err)
		}
	}
	return nil
}

// send só enfileira; a publicação acontece quando o item termina sem erro
func (p *Peer) send(to, msgType string, payload any) {
	p.outbox = append(p.outbox, outbound{
		to:  to,
		msg: shared.Message{Type: msgType, From: p.id, Data: mustMarshal(payload)},
	})
}

// ignore registra ruído esperado de assincronia (rodada velha, duplicata...)
func (p *Peer) ignore(reason string, args ...any) error {
	p.logger.Debug("ignored: "+reason, args...)
	return nil
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty", ErrBadPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
