package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/riefgeister/expansbot/internal/bot"
	"github.com/riefgeister/expansbot/internal/config"
	"github.com/riefgeister/expansbot/internal/ledger"
	"github.com/riefgeister/expansbot/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	gateway, err := newGateway(context.Background(), cfg)
	if err != nil {
		logger.Error("ledger gateway init failed", "error", err)
		os.Exit(1)
	}

	dialog := service.NewDialog(service.NewSessionStore(), gateway, cfg.Categories)
	stats := service.NewAggregator(gateway)

	b, err := bot.NewBot(cfg.BotToken, dialog, stats, logger)
	if err != nil {
		logger.Error("bot init failed", "error", err)
		os.Exit(1)
	}

	if cfg.BaseURL != "" {
		logger.Info("starting in webhook mode", "base_url", cfg.BaseURL, "port", cfg.Port)
		err = b.StartWebhook(cfg.BaseURL, cfg.Port)
	} else {
		logger.Info("starting in long polling mode")
		err = b.Start()
	}
	if err != nil {
		logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func newGateway(ctx context.Context, cfg *config.Config) (ledger.Gateway, error) {
	switch cfg.LedgerBackend {
	case "supabase":
		return ledger.NewSupabaseGateway(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable)
	default:
		creds, err := cfg.Credentials()
		if err != nil {
			return nil, fmt.Errorf("load credentials: %w", err)
		}
		return ledger.NewSheetsGateway(ctx, cfg.SpreadsheetID, cfg.WorksheetName, creds)
	}
}
