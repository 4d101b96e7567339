//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strconv"

	"sann/internal/app"
	"sann/internal/config"
	"sann/internal/core"
	"sann/internal/sims/fold"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	fold.Logger = logger

	foldCfg := fold.DefaultConfig()
	if cfg.ConfigPath != "" {
		file, err := config.Load(cfg.ConfigPath)
		if err != nil {
			logger.Error("load config", "path", cfg.ConfigPath, "err", err)
			os.Exit(1)
		}
		foldCfg = fold.Config{Seed: file.Seed, Engine: file.Engine, Params: file.Params}
	}
	m := fold.ToMap(foldCfg)
	m["seed"] = strconv.FormatInt(cfg.Seed, 10)
	sim, err := core.New(cfg.Sim, m)
	if err != nil {
		logger.Error("start", "sim", cfg.Sim, "err", err)
		os.Exit(2)
	}
	game := app.New(sim, cfg, logger)

	ebiten.SetWindowTitle("sann - " + sim.Name())
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(cfg.Width+cfg.HUDWidth, cfg.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer", "err", err)
		os.Exit(1)
	}
}
