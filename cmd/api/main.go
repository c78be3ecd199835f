package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/Lenagitpus/hostcheckbot/internal/config"
	"github.com/Lenagitpus/hostcheckbot/internal/httpapi"
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

	var ic httpapi.Intel
	if cfg.IntelURL != "" {
		ic = intel.NewClient(cfg.IntelURL, cfg.IntelKey, cfg.IntelTimeout, logger)
	}

	api := httpapi.NewServer(logger, probe.New(cfg.ProbeTimeout), ic)
	api.Timeout = cfg.CheckTimeout
	api.Keys = cfg.APIKeys
	api.RPM = cfg.PublicRPM
	api.Burst = cfg.PublicBurst

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
		log.Fatal(err)
	}
}
