package handlers

import (
	"sort"
	"testing"
	"time"

	"github.com/gokudragoo/stonepapersessior/server/models"
	"github.com/gokudragoo/stonepapersessior/shared"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

type senderFunc func(to string, msg shared.Message) error

func (f senderFunc) Send(to string, msg shared.Message) error { return f(to, msg) }

// memStore guarda tudo em memória pra inspecionar nos testes
type memStore struct {
	saved    []*models.PeerState
	journal  [][]byte
	failSave error
}

func (s *memStore) SaveState(state *models.PeerState) error {
	if s.failSave != nil {
		return s.failSave
	}
	s.saved = append(s.saved, state.Clone())
	return nil
}

func (s *memStore) AppendJournal(data []byte, at time.Time) error {
	s.journal = append(s.journal, append([]byte(nil), data...))
	return nil
}

type pair struct{ from, to string }

// router simula o canal: FIFO por par origem->destino, nenhuma ordem entre pares
type router struct {
	t      *testing.T
	clock  *clockwork.FakeClock
	peers  map[string]*Peer
	stores map[string]*memStore
	queues map[pair][]shared.Message
}

func newRouter(t *testing.T) *router {
	return &router{
		t:      t,
		clock:  clockwork.NewFakeClockAt(testEpoch),
		peers:  map[string]*Peer{},
		stores: map[string]*memStore{},
		queues: map[pair][]shared.Message{},
	}
}

func (r *router) add(id string) *Peer {
	return r.addWithState(id, nil)
}

func (r *router) addWithState(id string, state *models.PeerState) *Peer {
	store := &memStore{}
	sender := senderFunc(func(to string, msg shared.Message) error {
		k := pair{from: id, to: to}
		r.queues[k] = append(r.queues[k], msg)
		return nil
	})
	p := NewPeer(id, state, sender, store, Options{Clock: r.clock})
	r.peers[id] = p
	r.stores[id] = store
	return p
}

func (r *router) pending(from, to string) []shared.Message {
	return r.queues[pair{from: from, to: to}]
}

func (r *router) total() int {
	n := 0
	for _, q := range r.queues {
		n += len(q)
	}
	return n
}

// drop descarta o que está em trânsito de from pra to
func (r *router) drop(from, to string) {
	delete(r.queues, pair{from: from, to: to})
}

func (r *router) deliverNext(from, to string) error {
	r.t.Helper()
	k := pair{from: from, to: to}
	q := r.queues[k]
	require.NotEmpty(r.t, q, "nothing pending %s -> %s", from, to)
	msg := q[0]
	r.queues[k] = q[1:]
	target, ok := r.peers[to]
	require.True(r.t, ok, "unknown peer %s", to)
	return target.HandleMessage(msg)
}

// flush entrega tudo, par por par em ordem alfabética, até esvaziar
func (r *router) flush() {
	r.t.Helper()
	for i := 0; i < 1000; i++ {
		keys := make([]pair, 0, len(r.queues))
		for k, q := range r.queues {
			if len(q) > 0 {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return
		}
		sort.Slice(keys, func(a, b int) bool {
			if keys[a].from != keys[b].from {
				return keys[a].from < keys[b].from
			}
			return keys[a].to < keys[b].to
		})
		require.NoError(r.t, r.deliverNext(keys[0].from, keys[0].to))
	}
	r.t.Fatal("router did not settle")
}

func messageTypes(msgs []shared.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

// startedMatch devolve host "h" e guest "g" numa partida ativa
func startedMatch(t *testing.T) (*router, *Peer, *Peer) {
	t.Helper()
	r := newRouter(t)
	host, guest := r.add("h"), r.add("g")

	_, err := host.CreateMatch("Alice")
	require.NoError(t, err)
	_, err = guest.JoinMatch("h", "Bob")
	require.NoError(t, err)
	r.flush()

	require.True(t, models.CanPlay(guest.State().Game))
	return r, host, guest
}

// playRound faz os dois peers jogarem e entrega tudo
func playRound(t *testing.T, r *router, host, guest *Peer, hostChoice, guestChoice shared.Choice) {
	t.Helper()
	_, err := host.PickAndReady(hostChoice)
	require.NoError(t, err)
	_, err = guest.PickAndReady(guestChoice)
	require.NoError(t, err)
	r.flush()
}
