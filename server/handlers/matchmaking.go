package handlers

import (
	"fmt"

	"github.com/gokudragoo/stonepapersessior/server/utils"
	"github.com/gokudragoo/stonepapersessior/shared"
)

// SearchPlayer pede pra entrar na fila de um orquestrador
func (p *Peer) SearchPlayer(orchestratorPeer, name string) (string, error) {
	payload := shared.SearchPlayerPayload{OrchestratorPeer: orchestratorPeer, Name: name}
	return p.runCommand(shared.ActionSearchPlayer, payload, func() (string, error) {
		if err := utils.ValidatePeerID(orchestratorPeer); err != nil {
			return "", err
		}
		p.state.Notify("Matchmaking search started")
		p.send(orchestratorPeer, shared.MsgMatchmakingEnqueue, shared.MatchmakingEnqueue{Peer: p.id, Name: name})
		return fmt.Sprintf("Search requested via %s", orchestratorPeer), nil
	})
}

// handleMatchmakingEnqueue roda no orquestrador. A fila é podada aqui mesmo,
// não existe timer em background.
func (p *Peer) handleMatchmakingEnqueue(m shared.MatchmakingEnqueue) error {
	if err := utils.ValidatePeerID(m.Peer); err != nil {
		return err
	}

	now := p.clock.Now()
	before := len(p.state.Queue)
	queue := p.state.Queue.Prune(now, p.queueTTL)
	if pruned := before - len(queue); pruned > 0 {
		p.logger.Debug("queue pruned", "expired", pruned)
	}
	refreshed := queue.Contains(m.Peer)
	queue = queue.Upsert(m.Peer, m.Name, now)

	p.send(m.Peer, shared.MsgMatchmakingQueued, shared.MatchmakingEnqueued{OrchestratorPeer: p.id})
	p.logger.Info("player enqueued", "peer", m.Peer, "name", m.Name, "queue", len(queue), "refreshed", refreshed)

	host, guest, rest, ok := queue.PopPair()
	if ok {
		queue = rest
		p.send(host.Peer, shared.MsgMatchmakingStart, shared.MatchmakingStart{
			HostName:  host.Name,
			GuestPeer: guest.Peer,
			GuestName: guest.Name,
		})
		p.send(guest.Peer, shared.MsgMatchmakingFound, shared.MatchmakingFound{HostPeer: host.Peer})
		p.logger.Info("players paired", "host", host.Peer, "guest", guest.Peer)
	}

	p.state.Queue = queue
	return nil
}

// handleMatchmakingStart: este peer foi escolhido como host
func (p *Peer) handleMatchmakingStart(m shared.MatchmakingStart) error {
	if g := p.state.Game; g != nil && g.Status == shared.Active {
		return p.ignore("matchmaking start with active match", "match_id", g.MatchID, "guest", m.GuestPeer)
	}
	if err := utils.ValidatePeerID(m.GuestPeer); err != nil {
		return err
	}
	if m.GuestPeer == p.id {
		return ErrSelfJoin
	}

	g := p.newGame(shared.Active, []shared.PlayerInfo{
		{Peer: p.id, Name: m.HostName},
		{Peer: m.GuestPeer, Name: m.GuestName},
	})
	p.state.Game = g
	p.state.ResetRound()
	p.state.Notify("Match found (host)")

	p.logger.Info("matchmaking match started", "match_id", g.MatchID, "guest", m.GuestPeer)
	p.send(m.GuestPeer, shared.MsgInitialStateSync, shared.StateSync{Game: *g.Clone()})
	return nil
}

func (p *Peer) handleMatchmakingEnqueued(m shared.MatchmakingEnqueued) error {
	p.state.Notify(fmt.Sprintf("Enqueued on %s", m.OrchestratorPeer))
	return nil
}

func (p *Peer) handleMatchmakingFound(m shared.MatchmakingFound) error {
	p.state.Notify(fmt.Sprintf("Match found. Host: %s", m.HostPeer))
	return nil
}
