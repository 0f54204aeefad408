package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/milk9111/alphaengine/config"
	"github.com/milk9111/alphaengine/engine"
)

func main() {
	configPath := flag.String("config", "alpha.toml", "path to the TOML config")
	sceneName := flag.String("scene", "", "scene name in prefabs/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "enable debug logging and the stats overlay")
	profileMode := flag.String("profile", "", "write a cpu, mem or trace profile to the working directory")
	headless := flag.Int("headless", 0, "run this many frames without a window, then exit")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if *sceneName != "" {
		cfg.Scene.Name = *sceneName
	}

	log, err := engine.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if stop := startProfile(*profileMode); stop != nil {
		defer stop()
	}

	if *headless > 0 {
		err = runHeadless(cfg, log, *headless)
	} else {
		err = runWindowed(cfg, log, *debug)
	}
	if err != nil {
		log.Error("engine stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func startProfile(mode string) func() {
	var opt func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfile
	case "trace":
		opt = profile.TraceProfile
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", mode)
		return nil
	}
	return profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook).Stop
}

func runWindowed(cfg *config.Config, log *zap.Logger, debug bool) error {
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowClosingHandled(true)

	game, err := NewGame(cfg, log, debug)
	if err != nil {
		return err
	}
	defer game.Close()

	return ebiten.RunGame(game)
}
