package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bankingapp/ledger/internal/app"
	"github.com/bankingapp/ledger/internal/cli"
	"github.com/bankingapp/ledger/internal/config"
	"github.com/bankingapp/ledger/internal/logger"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank, err := app.New(ctx, cfg, zl)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer bank.Close()

	cli.NewUI(bank.Ledger, bank.Accounts, os.Stdin, os.Stdout).Run(ctx)
}
