package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Lenagitpus/hostcheckbot/internal/bot"
	"github.com/Lenagitpus/hostcheckbot/internal/config"
	"github.com/Lenagitpus/hostcheckbot/internal/intel"
	"github.com/Lenagitpus/hostcheckbot/internal/logging"
	"github.com/Lenagitpus/hostcheckbot/internal/probe"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	tg := bot.NewTelegram(cfg.BotToken, cfg.TelegramAPI, cfg.SendRate, cfg.SendBurst)
	if tg == nil {
		logger.Fatal("bot_token_missing", zap.String("hint", "set BOT_TOKEN"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	me, err := tg.GetMe(ctx)
	if err != nil {
		logger.Fatal("bot_auth_failed", zap.Error(err))
	}
	logger.Info("bot_start",
		zap.String("username", me.Username),
		zap.Int64("bot_id", me.ID))

	var ic bot.Intel
	if cfg.IntelURL != "" {
		ic = intel.NewClient(cfg.IntelURL, cfg.IntelKey, cfg.IntelTimeout, logger)
	} else {
		logger.Warn("intel_disabled", zap.String("hint", "set INTEL_API_URL to enable related-domain lookups"))
	}

	sessions := bot.NewSessionStore(cfg.SessionTTL)
	go sessions.Janitor(ctx, time.Minute, logger)

	runner := bot.NewRunner(logger, tg, sessions, probe.New(cfg.ProbeTimeout), ic, bot.Config{
		PollSeconds:  cfg.PollTimeout,
		Workers:      cfg.Workers,
		CheckTimeout: cfg.CheckTimeout,
	})
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("bot_stopped", zap.Error(err))
	}
	logger.Info("bot_shutdown")
}
