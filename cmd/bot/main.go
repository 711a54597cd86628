package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"qrscan_bot/internal/bot"
	"qrscan_bot/internal/config"
	"qrscan_bot/internal/decoder"
	"qrscan_bot/internal/logging"
	"qrscan_bot/internal/scan"
	"qrscan_bot/internal/storage"
	"qrscan_bot/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	gate := worker.NewGate(cfg.ResultGateTimeout)

	b, err := bot.New(cfg.TelegramBotToken, store, gate, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	dec := decoder.New(http.DefaultClient, cfg.MaxImageBytes)
	w := worker.New(b, dec, scan.NewRecorder(store), gate, b, cfg.DecodeWorkers, log)
	b.SetQueue(w)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot", "decode_workers", cfg.DecodeWorkers)

	go w.Run(ctx)

	b.Run(ctx)

	log.Info("bot stopped")
}
