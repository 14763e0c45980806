package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gokudragoo/stonepapersessior/server/config"

	"github.com/hashicorp/go-hclog"
)

func main() {
	boot := hclog.New(&hclog.LoggerOptions{Name: "sps"})

	if err := config.LoadDotEnv(); err != nil {
		boot.Error("load .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		boot.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := StartPeer(ctx, cfg, logger); err != nil {
		logger.Error("peer failed", "error", err)
		stop()
		os.Exit(1)
	}
}
