package handlers

import (
	"fmt"

	"github.com/gokudragoo/stonepapersessior/server/models"
	"github.com/gokudragoo/stonepapersessior/server/utils"
	"github.com/gokudragoo/stonepapersessior/shared"
)

// newGame cria uma partida com este peer como host
func (p *Peer) newGame(status shared.MatchStatus, players []shared.PlayerInfo) *shared.Game {
	return &shared.Game{
		MatchID:  utils.NewMatchID(),
		HostPeer: p.id,
		Status:   status,
		Players:  players,
		Round:    1,
		History:  []shared.RoundRecord{},
	}
}

// CreateMatch sobrescreve qualquer partida local anterior.
func (p *Peer) CreateMatch(name string) (string, error) {
	return p.runCommand(shared.ActionCreateMatch, shared.CreateMatchPayload{Name: name}, func() (string, error) {
		g := p.newGame(shared.WaitingForPlayer, []shared.PlayerInfo{{Peer: p.id, Name: name}})
		p.state.Game = g
		p.state.ResetRound()
		p.state.Notify("")

		p.logger.Info("match created", "match_id", g.MatchID, "name", name)
		return fmt.Sprintf("Match created by '%s'", name), nil
	})
}

// JoinMatch só pede pra entrar; o estado local muda quando o host responder.
func (p *Peer) JoinMatch(hostPeer, name string) (string, error) {
	return p.runCommand(shared.ActionJoinMatch, shared.JoinMatchPayload{HostPeer: hostPeer, Name: name}, func() (string, error) {
		if err := utils.ValidatePeerID(hostPeer); err != nil {
			return "", err
		}
		p.send(hostPeer, shared.MsgJoinRequest, shared.JoinRequest{Peer: p.id, Name: name})
		return fmt.Sprintf("Join request sent to %s", hostPeer), nil
	})
}

// LeaveMatch avisa o oponente (se houver) e descarta a réplica local.
func (p *Peer) LeaveMatch() (string, error) {
	return p.runCommand(shared.ActionLeaveMatch, nil, func() (string, error) {
		if g := p.state.Game; g != nil {
			if opponent, ok := models.Opponent(g, p.id); ok {
				p.send(opponent, shared.MsgLeaveNotice, shared.LeaveNotice{Peer: p.id})
			}
			p.logger.Info("left match", "match_id", g.MatchID)
		}
		p.state.ClearMatch()
		p.state.Notify("")
		return "Leave requested", nil
	})
}

// handleJoinRequest roda no host
func (p *Peer) handleJoinRequest(m shared.JoinRequest) error {
	g := p.state.Game
	if g == nil {
		return ErrMatchNotFound
	}
	if !models.IsHost(g, p.id) {
		return ErrNotHost
	}
	if g.Status != shared.WaitingForPlayer {
		return ErrMatchNotJoinable
	}
	if len(g.Players) >= 2 {
		return ErrMatchFull
	}
	if err := utils.ValidatePeerID(m.Peer); err != nil {
		return err
	}
	if m.Peer == p.id {
		return ErrSelfJoin
	}

	g.Players = append(g.Players, shared.PlayerInfo{Peer: m.Peer, Name: m.Name})
	g.Status = shared.Active
	p.state.ResetRound()
	p.state.Notify("Player joined")

	p.logger.Info("player joined", "match_id", g.MatchID, "guest", m.Peer, "name", m.Name)
	p.send(m.Peer, shared.MsgInitialStateSync, shared.StateSync{Game: *g.Clone()})
	return nil
}

// handleStateSync troca a réplica local pelo snapshot do host, sem condição
func (p *Peer) handleStateSync(m shared.StateSync, initial bool) error {
	p.state.Game = m.Game.Clone()
	p.state.ResetRound()
	if initial {
		p.state.Notify("Match ready")
		p.logger.Info("match ready", "match_id", m.Game.MatchID, "host", m.Game.HostPeer)
		return nil
	}
	p.logger.Debug("game synced", "match_id", m.Game.MatchID, "round", m.Game.Round, "status", m.Game.Status)
	return nil
}

func (p *Peer) handleLeaveNotice(m shared.LeaveNotice) error {
	p.state.ClearMatch()
	p.state.Notify("Opponent left")
	p.logger.Info("opponent left", "peer", m.Peer)
	return nil
}
