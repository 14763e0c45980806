package models

import (
	"github.com/gokudragoo/stonepapersessior/shared"
)

// HistoryLimit é o número de rodadas mantidas em Game.History
const HistoryLimit = 50

// WinningScore encerra a partida
const WinningScore uint8 = 3

// RoundState é local a cada peer e nunca vai dentro do Game
type RoundState struct {
	MyReady        bool           `json:"myReady"`
	OpponentReady  bool           `json:"opponentReady"`
	MyChoice       *shared.Choice `json:"myChoice,omitempty"`
	OpponentChoice *shared.Choice `json:"opponentChoice,omitempty"`
}

func (r RoundState) clone() RoundState {
	c := r
	if r.MyChoice != nil {
		v := *r.MyChoice
		c.MyChoice = &v
	}
	if r.OpponentChoice != nil {
		v := *r.OpponentChoice
		c.OpponentChoice = &v
	}
	return c
}

// AppendHistory adiciona rec no fim e descarta as mais antigas além de limit.
// Retorna sempre um slice novo.
func AppendHistory(history []shared.RoundRecord, rec shared.RoundRecord, limit int) []shared.RoundRecord {
	out := make([]shared.RoundRecord, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, rec)
	if limit > 0 && len(out) > limit {
		out = append([]shared.RoundRecord(nil), out[len(out)-limit:]...)
	}
	return out
}

// CanPlay: partida ativa com os dois jogadores
func CanPlay(g *shared.Game) bool {
	return g != nil && g.Status == shared.Active && len(g.Players) == 2
}

func IsHost(g *shared.Game, self string) bool {
	return g != nil && g.HostPeer == self
}

// Opponent devolve o primeiro jogador que não é self
func Opponent(g *shared.Game, self string) (string, bool) {
	if g == nil {
		return "", false
	}
	for _, p := range g.Players {
		if p.Peer != self {
			return p.Peer, true
		}
	}
	return "", false
}

// GuestPeer devolve o jogador que não é o host
func GuestPeer(g *shared.Game) (string, bool) {
	return Opponent(g, g.HostPeer)
}
