package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gokudragoo/stonepapersessior/server/config"
	"github.com/gokudragoo/stonepapersessior/server/handlers"
	"github.com/gokudragoo/stonepapersessior/server/notifier"
	"github.com/gokudragoo/stonepapersessior/server/pubSub"
	"github.com/gokudragoo/stonepapersessior/server/storage"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
)

// StartPeer sobe o peer e bloqueia até ctx acabar
func StartPeer(ctx context.Context, cfg config.Config, logger hclog.Logger) error {
	logger = logger.Named(cfg.PeerID)

	dataDir := filepath.Join(cfg.DataDir, cfg.PeerID)
	store, err := storage.Open(dataDir, logger.Named("storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", "error", err)
		}
	}()

	state, err := store.LoadState()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if state.Game != nil {
		logger.Info("state restored", "match_id", state.Game.MatchID, "status", state.Game.Status, "round", state.Game.Round)
	}

	clock := clockwork.NewRealClock()

	nc, err := pubSub.Connect(cfg.NatsURL, "sps-"+cfg.PeerID, logger.Named("nats"))
	if err != nil {
		return err
	}
	defer nc.Close()

	peer := handlers.NewPeer(cfg.PeerID, state, notifier.New(nc, logger.Named("notifier")), store, handlers.Options{
		QueueTTL:    cfg.QueueTTL,
		MailboxSize: cfg.MailboxSize,
		Clock:       clock,
		Logger:      logger,
	})

	sched, err := storage.StartCompaction(store, clock, cfg.CompactEvery, cfg.JournalRetain, logger.Named("compaction"))
	if err != nil {
		return err
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			logger.Error("scheduler shutdown", "error", err)
		}
	}()

	subs, err := pubSub.Subscribe(ctx, nc, peer, logger.Named("pubsub"))
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
	}()

	logger.Info("peer started", "nats", cfg.NatsURL, "data_dir", dataDir)
	err = peer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("peer stopped")
		return nil
	}
	return err
}
