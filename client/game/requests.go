package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gokudragoo/stonepapersessior/server/utils"
	"github.com/gokudragoo/stonepapersessior/shared"

	"github.com/nats-io/nats.go"
)

// Requester é o pedaço do *nats.Conn que o cliente usa
type Requester interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
}

// Session fala com um peer pelo tópico peer.<id>.commands
type Session struct {
	nc       Requester
	peerID   string
	clientID string
	timeout  time.Duration
}

func NewSession(nc Requester, peerID, clientID string, timeout time.Duration) *Session {
	return &Session{nc: nc, peerID: peerID, clientID: clientID, timeout: timeout}
}

func (s *Session) PeerID() string { return s.peerID }

// Send manda a ação e devolve a resposta crua do peer
func (s *Session) Send(action string, payload any) (shared.Response, error) {
	req := shared.Request{ClientID: s.clientID, Action: action}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return shared.Response{}, fmt.Errorf("encode payload: %w", err)
		}
		req.Payload = data
	}
	reqData, err := json.Marshal(req)
	if err != nil {
		return shared.Response{}, fmt.Errorf("encode request: %w", err)
	}

	msg, err := s.nc.Request(utils.CommandSubject(s.peerID), reqData, s.timeout)
	if err != nil {
		return shared.Response{}, fmt.Errorf("request %s: %w", action, err)
	}

	var resp shared.Response
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return shared.Response{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != "success" {
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}

// ack executa uma ação que responde só com a string de confirmação
func (s *Session) ack(action string, payload any) (string, error) {
	resp, err := s.Send(action, payload)
	if err != nil {
		return "", err
	}
	var ack string
	if err := json.Unmarshal(resp.Data, &ack); err != nil {
		return "", fmt.Errorf("decode ack: %w", err)
	}
	return ack, nil
}

func (s *Session) CreateMatch(name string) (string, error) {
	return s.ack(shared.ActionCreateMatch, shared.CreateMatchPayload{Name: name})
}

func (s *Session) JoinMatch(hostPeer, name string) (string, error) {
	return s.ack(shared.ActionJoinMatch, shared.JoinMatchPayload{HostPeer: hostPeer, Name: name})
}

func (s *Session) SearchPlayer(orchestratorPeer, name string) (string, error) {
	return s.ack(shared.ActionSearchPlayer, shared.SearchPlayerPayload{OrchestratorPeer: orchestratorPeer, Name: name})
}

func (s *Session) PickAndReady(choice shared.Choice) (string, error) {
	return s.ack(shared.ActionPickAndReady, shared.PickAndReadyPayload{Choice: choice})
}

func (s *Session) LeaveMatch() (string, error) {
	return s.ack(shared.ActionLeaveMatch, nil)
}

func (s *Session) View() (shared.MatchView, error) {
	resp, err := s.Send(shared.ActionView, nil)
	if err != nil {
		return shared.MatchView{}, err
	}
	var v shared.MatchView
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		return shared.MatchView{}, fmt.Errorf("decode view: %w", err)
	}
	return v, nil
}
