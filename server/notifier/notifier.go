package notifier

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gokudragoo/stonepapersessior/server/utils"
	"github.com/gokudragoo/stonepapersessior/shared"

	"github.com/hashicorp/go-hclog"
)

var ErrNoConnection = errors.New("nats connection is nil")

// Conn é o pedaço do *nats.Conn que o notifier usa
type Conn interface {
	Publish(subj string, data []byte) error
}

// Publisher publica mensagens na inbox de outros peers (peer.<id>.inbox)
type Publisher struct {
	nc     Conn
	logger hclog.Logger
}

func New(nc Conn, logger hclog.Logger) *Publisher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Publisher{nc: nc, logger: logger}
}

// Send não espera confirmação; quem recebe processa quando puder.
func (p *Publisher) Send(to string, msg shared.Message) error {
	if p.nc == nil {
		return ErrNoConnection
	}
	if err := utils.ValidatePeerID(to); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}

	subject := utils.InboxSubject(to)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	p.logger.Trace("message sent", "to", to, "type", msg.Type)
	return nil
}
