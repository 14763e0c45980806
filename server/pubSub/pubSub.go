package pubSub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gokudragoo/stonepapersessior/server/handlers"
	"github.com/gokudragoo/stonepapersessior/server/utils"
	"github.com/gokudragoo/stonepapersessior/shared"

	"github.com/hashicorp/go-hclog"
	"github.com/nats-io/nats.go"
)

// Connect abre a conexão NATS do peer
func Connect(url, name string, logger hclog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

// Subscribe liga os dois tópicos do peer ao mailbox: peer.<id>.inbox pras
// mensagens de outros peers e peer.<id>.commands pro request/reply dos
// clientes. ctx limita quanto tempo um callback espera vaga no mailbox.
func Subscribe(ctx context.Context, nc *nats.Conn, peer *handlers.Peer, logger hclog.Logger) ([]*nats.Subscription, error) {
	inboxTopic := utils.InboxSubject(peer.ID())
	inbox, err := nc.Subscribe(inboxTopic, func(msg *nats.Msg) {
		var m shared.Message
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			logger.Warn("bad inbox message", "subject", msg.Subject, "error", err)
			return
		}
		if err := peer.Deliver(ctx, m); err != nil {
			logger.Warn("inbox message dropped", "type", m.Type, "from", m.From, "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", inboxTopic, err)
	}

	cmdTopic := utils.CommandSubject(peer.ID())
	commands, err := nc.Subscribe(cmdTopic, func(msg *nats.Msg) {
		var req shared.Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			logger.Warn("bad command", "subject", msg.Subject, "error", err)
			reply(msg, shared.Response{Status: "error", Error: "invalid request", Peer: peer.ID()}, logger)
			return
		}

		resp, err := peer.Submit(ctx, req)
		if err != nil {
			resp = shared.Response{Status: "error", Action: req.Action, Error: err.Error(), Peer: peer.ID()}
		}
		reply(msg, resp, logger)
	})
	if err != nil {
		_ = inbox.Unsubscribe()
		return nil, fmt.Errorf("subscribe %s: %w", cmdTopic, err)
	}

	logger.Info("subscribed", "inbox", inboxTopic, "commands", cmdTopic)
	return []*nats.Subscription{inbox, commands}, nil
}

func reply(msg *nats.Msg, resp shared.Response, logger hclog.Logger) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("encode response", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		logger.Error("respond", "subject", msg.Reply, "error", err)
	}
}
