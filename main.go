package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"framekeys/internal/bridge"
	"framekeys/internal/config"
	"framekeys/internal/demo"
	"framekeys/internal/evdev"
	"framekeys/internal/keyboard"
	"framekeys/internal/keytracker"
	"framekeys/internal/monitoring"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoadConfig(*configPath)

	monitor := monitoring.NewInputMonitor()
	queue := keyboard.NewQueue(cfg.Input.QueueSize, monitor)

	var tracker *keytracker.Tracker
	if cfg.HasSource(config.SourceEbiten) {
		tracker = keytracker.New(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	if cfg.HasSource(config.SourceBridge) {
		srv := bridge.NewServer(cfg.Bridge, queue)
		group.Go(func() error { return srv.ListenAndServe(ctx) })
	}
	if cfg.HasSource(config.SourceEvdev) {
		src, err := evdev.Open(cfg.Evdev.Device)
		if err != nil {
			log.Fatal(err)
		}
		group.Go(func() error { return src.Run(ctx, queue) })
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := demo.NewGame(cfg, tracker, queue, monitor)
	runErr := ebiten.RunGame(&stoppable{Game: g, ctx: ctx})
	cancel()
	if err := group.Wait(); err != nil {
		log.Printf("input source: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}

	m := monitor.Snapshot()
	log.Printf("frames=%d events=%d dropped=%d avg_frame=%v", m.Frames, m.EventsDelivered, m.EventsDropped, m.AvgFrameTime)
}

// stoppable ends the game loop when a signal arrives or a source fails.
type stoppable struct {
	*demo.Game
	ctx context.Context
}

func (s *stoppable) Update() error {
	if s.ctx.Err() != nil {
		return ebiten.Termination
	}
	return s.Game.Update()
}
