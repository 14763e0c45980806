package models

import (
	"time"

	"github.com/gokudragoo/stonepapersessior/shared"
)

// Queue é a fila do orquestrador, mais antigos primeiro, sem peers repetidos
type Queue []shared.MatchmakingPlayer

// Prune remove quem entrou antes de now-ttl
func (q Queue) Prune(now time.Time, ttl time.Duration) Queue {
	cutoff := now.Add(-ttl)
	out := make(Queue, 0, len(q))
	for _, e := range q {
		if !e.EnqueuedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Upsert atualiza nome e horário se o peer já está na fila, senão entra no fim
func (q Queue) Upsert(peer, name string, now time.Time) Queue {
	out := append(Queue{}, q...)
	for i := range out {
		if out[i].Peer == peer {
			out[i].Name = name
			out[i].EnqueuedAt = now
			return out
		}
	}
	return append(out, shared.MatchmakingPlayer{Peer: peer, Name: name, EnqueuedAt: now})
}

// PopPair tira os dois mais antigos. O primeiro vira host.
func (q Queue) PopPair() (host, guest shared.MatchmakingPlayer, rest Queue, ok bool) {
	if len(q) < 2 {
		return host, guest, q, false
	}
	rest = append(Queue{}, q[2:]...)
	return q[0], q[1], rest, true
}

func (q Queue) Contains(peer string) bool {
	for _, e := range q {
		if e.Peer == peer {
			return true
		}
	}
	return false
}
