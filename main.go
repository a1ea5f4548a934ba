package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mvcarvalho/fretebot/checkpoint"
	"github.com/mvcarvalho/fretebot/config"
	"github.com/mvcarvalho/fretebot/gmail"
	"github.com/mvcarvalho/fretebot/llm"
	"github.com/mvcarvalho/fretebot/qualp"
	"github.com/mvcarvalho/fretebot/report"
	"github.com/mvcarvalho/fretebot/watcher"
)

const rulesPath = "config/rules.json"

func main() {
	zapConfig := zap.NewProductionConfig()
	if os.Getenv("FRETEBOT_VERBOSE") != "" {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(rulesPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	// A mailbox connection failure at startup is the only unrecoverable
	// error; everything after this is isolated per polling cycle.
	mailClient, err := gmail.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize Gmail client", zap.Error(err))
	}
	logger.Info("Gmail client initialized",
		zap.String("subject_marker", cfg.Rules.SubjectMarker),
		zap.String("sender_domain", cfg.Rules.SenderDomain))

	var memory watcher.Memory = watcher.NewSlotMemory()
	if cfg.CheckpointPath != "" {
		store, err := checkpoint.Open(cfg.CheckpointPath)
		if err != nil {
			logger.Fatal("failed to open checkpoint store", zap.Error(err))
		}
		defer store.Close()
		memory = store
		logger.Info("checkpoint store enabled", zap.String("path", cfg.CheckpointPath))
	}

	w := watcher.New(watcher.Options{
		Mail:      mailClient,
		Extractor: llm.NewClient(cfg.GroqAPIKey, logger),
		Routes:    qualp.NewClient(qualp.Config{APIKey: cfg.QualpAPIKey}),
		Sink:      report.NewConsoleSink(os.Stdout),
		Memory:    memory,
		Interval:  cfg.PollInterval,
		Logger:    logger,
	})

	w.Run(ctx)
	logger.Info("fretebot stopped")
}
