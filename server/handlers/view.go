package handlers

import (
	"github.com/gokudragoo/stonepapersessior/server/models"
	"github.com/gokudragoo/stonepapersessior/shared"
)

// View monta a visão do estado relativa a este peer (placar "meu" e
// "do oponente" comparando o próprio ID com o host).
func (p *Peer) View() shared.MatchView {
	v := shared.MatchView{
		Peer:          p.id,
		MyReady:       p.state.Round.MyReady,
		OpponentReady: p.state.Round.OpponentReady,
		History:       []shared.RoundRecord{},
	}
	if c := p.state.Round.MyChoice; c != nil {
		mine := *c
		v.MyChoice = &mine
	}
	if c := p.state.Round.OpponentChoice; c != nil {
		theirs := *c
		v.OpponentChoice = &theirs
	}
	if n := p.state.Notification; n != "" {
		v.LastNotification = &n
	}

	g := p.state.Game
	if g == nil {
		return v
	}

	v.Game = g.Clone()
	status, round := g.Status, g.Round
	v.MatchStatus = &status
	v.Round = &round
	v.IsHost = models.IsHost(g, p.id)
	if opponent, ok := models.Opponent(g, p.id); ok {
		v.OpponentPeer = &opponent
	}

	mine, theirs := g.GuestScore, g.HostScore
	if v.IsHost {
		mine, theirs = g.HostScore, g.GuestScore
	}
	v.MyScore = &mine
	v.OpponentScore = &theirs

	if g.LastOutcome != nil {
		o := *g.LastOutcome
		v.LastOutcome = &o
	}
	v.History = v.Game.History
	if n := len(g.History); n > 0 {
		last := g.History[n-1]
		v.LastRoundRecord = &last
	}
	return v
}
