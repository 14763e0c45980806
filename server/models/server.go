package models

import (
	"github.com/gokudragoo/stonepapersessior/shared"
)

// PeerState é tudo que um peer persiste: a réplica da partida, o estado
// efêmero da rodada, a última notificação e a fila de matchmaking (quando
// o peer atua como orquestrador).
type PeerState struct {
	Game         *shared.Game `json:"game,omitempty"`
	Round        RoundState   `json:"round"`
	Notification string       `json:"notification,omitempty"`
	Queue        Queue        `json:"queue"`
}

func NewPeerState() *PeerState {
	return &PeerState{Queue: Queue{}}
}

// ResetRound limpa prontidão e escolhas dos dois lados
func (s *PeerState) ResetRound() {
	s.Round = RoundState{}
}

func (s *PeerState) Notify(msg string) {
	s.Notification = msg
}

// ClearMatch descarta a réplica local (leave / opponent left)
func (s *PeerState) ClearMatch() {
	s.Game = nil
	s.ResetRound()
}

// Clone é usado pelo peer pra desfazer mutações quando um comando falha
func (s *PeerState) Clone() *PeerState {
	c := &PeerState{
		Game:         s.Game.Clone(),
		Round:        s.Round.clone(),
		Notification: s.Notification,
		Queue:        append(Queue{}, s.Queue...),
	}
	return c
}
