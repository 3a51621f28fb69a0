package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/soocke/snapcrop-go/app"
	"github.com/soocke/snapcrop-go/config"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "path to the JSON config file")
	envFile := flag.String("env", ".env", "optional .env file with SNAPCROP_* overrides")
	debug := flag.Bool("debug", false, "enable debug logging and runtime stats")
	flag.Parse()

	// Base config from file, then environment
	cfg, err := config.Load(*cfgPath)
	_ = config.LoadEnvFiles(*envFile)
	cfg.ApplyEnv(nil)
	if *debug {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger, closer := NewLogger(level, cfg.LogFile)
	defer closer.Close()
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}

	application := app.NewApp("SnapCrop", cfg.ViewWidth+220, cfg.ViewHeight+160, cfg, *cfgPath, logger)
	if err := application.Start(); err != nil {
		logger.Error("app exited", "error", err)
		os.Exit(1)
	}
}
