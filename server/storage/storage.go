package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gokudragoo/stonepapersessior/server/models"

	"github.com/boltdb/bolt"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

const dbFile = "peer.db"

var stateKey = []byte("peer_state")

// Store guarda o estado do peer e o journal num único arquivo bolt. O
// BoltStore do raft já separa as duas coisas: chave/valor pro estado e
// log indexado pro journal.
type Store struct {
	mu     sync.Mutex
	db     *raftboltdb.BoltStore
	logger hclog.Logger
}

func Open(dir string, logger hclog.Logger) (*Store, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := raftboltdb.New(raftboltdb.Options{
		Path:        filepath.Join(dir, dbFile),
		BoltOptions: &bolt.Options{Timeout: time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}

	logger.Debug("store opened", "path", filepath.Join(dir, dbFile))
	return &Store{db: db, logger: logger}, nil
}

// LoadState devolve o estado salvo, ou um estado novo se nunca houve save
func (s *Store) LoadState() (*models.PeerState, error) {
	data, err := s.db.Get(stateKey)
	if err != nil {
		if errors.Is(err, raftboltdb.ErrKeyNotFound) {
			return models.NewPeerState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	if len(data) == 0 {
		return models.NewPeerState(), nil
	}

	state := models.NewPeerState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if state.Queue == nil {
		state.Queue = models.Queue{}
	}
	return state, nil
}

func (s *Store) SaveState(state *models.PeerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.db.Set(stateKey, data); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// AppendJournal grava data como o próximo raft.Log
func (s *Store) AppendJournal(data []byte, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.db.LastIndex()
	if err != nil {
		return fmt.Errorf("journal last index: %w", err)
	}
	entry := &raft.Log{
		Index:      last + 1,
		Term:       1,
		Type:       raft.LogCommand,
		Data:       data,
		AppendedAt: at,
	}
	if err := s.db.StoreLog(entry); err != nil {
		return fmt.Errorf("journal append: %w", err)
	}
	return nil
}

// Journal lê todas as entradas ainda retidas, da mais antiga pra mais nova
func (s *Store) Journal() ([]raft.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first, last, err := s.bounds()
	if err != nil {
		return nil, err
	}
	if last == 0 {
		return nil, nil
	}

	out := make([]raft.Log, 0, last-first+1)
	for i := first; i <= last; i++ {
		var l raft.Log
		if err := s.db.GetLog(i, &l); err != nil {
			return nil, fmt.Errorf("journal read %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// Compact mantém só as retain entradas mais novas. retain 0 desliga.
func (s *Store) Compact(retain uint64) (int, error) {
	if retain == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	first, last, err := s.bounds()
	if err != nil {
		return 0, err
	}
	if last == 0 || last-first+1 <= retain {
		return 0, nil
	}

	upTo := last - retain
	if err := s.db.DeleteRange(first, upTo); err != nil {
		return 0, fmt.Errorf("journal compact: %w", err)
	}
	removed := int(upTo - first + 1)
	s.logger.Debug("journal compacted", "removed", removed, "first", upTo+1, "last", last)
	return removed, nil
}

func (s *Store) bounds() (uint64, uint64, error) {
	first, err := s.db.FirstIndex()
	if err != nil {
		return 0, 0, fmt.Errorf("journal first index: %w", err)
	}
	last, err := s.db.LastIndex()
	if err != nil {
		return 0, 0, fmt.Errorf("journal last index: %w", err)
	}
	return first, last, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
