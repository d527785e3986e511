// Command fiberdemo drives a small todo list through the realtime loop,
// then persists a snapshot of the fiber tree and prints it as DOT.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/comalice/fiberx"
	"github.com/comalice/fiberx/internal/logging"
	"github.com/comalice/fiberx/internal/production"
	"github.com/comalice/fiberx/realtime"
	"github.com/comalice/fiberx/reconcile"
)

const treeID = "todo"

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	logCfg := logging.ConfigureRuntime()
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		logCfg.Level = lvl
		zerolog.SetGlobalLevel(lvl)
	}
	logger := logging.NewLogger("fiberdemo", os.Stderr, logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg demoConfig, logger zerolog.Logger) error {
	events := make(chan production.PublishedEvent, 256)
	publisher := production.NewChannelPublisher(treeID, events)

	rt := fiberx.NewRuntime(fiberx.WithLogger(logger), fiberx.WithObserver(publisher))
	ctrl := &controls{}
	renderer := reconcile.NewRenderer(rt, treeID, todoApp(ctrl), reconcile.WithLogger(logger))

	frames := make(chan realtime.Frame, 1)
	loop := realtime.NewLoop(renderer, appProps{Title: cfg.Title, Theme: cfg.Theme}, realtime.Config{
		TickRate: cfg.TickRate,
		Logger:   &logger,
	}, func(f realtime.Frame) {
		// Keep only the newest frame.
		select {
		case <-frames:
		default:
		}
		frames <- f
	})

	if err := loop.Start(ctx); err != nil {
		return err
	}
ticks:
	for step := 0; step < cfg.Ticks; step++ {
		var frame realtime.Frame
		select {
		case frame = <-frames:
		case <-ctx.Done():
			logger.Info().Msg("interrupted")
			break ticks
		}
		if frame.Err != nil {
			loop.Stop()
			return frame.Err
		}
		fmt.Printf("--- tick %d ---\n%s\n", frame.Tick, frame.Output)

		if action := scriptStep(cfg.Tasks, step); action != nil {
			if err := loop.Post(func(*fiberx.Runtime) { action(ctrl) }); err != nil {
				logger.Warn().Err(err).Msg("dropping input")
			}
		}
	}
	if err := loop.Stop(); err != nil {
		return err
	}

	// The loop is stopped; the runtime is ours again.
	snap := rt.Snapshot(treeID)
	publisher.Close()
	counts := map[fiberx.LifecycleKind]int{}
	for ev := range events {
		counts[ev.Event.Kind]++
	}
	logger.Info().
		Int("mounted", counts[fiberx.Mounted]).
		Int("unmounted", counts[fiberx.Unmounted]).
		Int("called", counts[fiberx.Called]).
		Uint64("dropped", publisher.Dropped()).
		Msg("lifecycle events")

	if cfg.SnapshotDir != "" {
		if err := persist(ctx, cfg, snap); err != nil {
			return err
		}
		logger.Info().Str("dir", cfg.SnapshotDir).Str("format", cfg.SnapshotFormat).Msg("snapshot saved")
	}

	viz := &production.DefaultVisualizer{ShowSlots: true}
	fmt.Print(viz.ExportDOT(snap, snap.Roots...))
	return nil
}

func persist(ctx context.Context, cfg demoConfig, snap fiberx.TreeSnapshot) error {
	var p production.Persister
	switch cfg.SnapshotFormat {
	case "yaml":
		yp, err := production.NewYAMLPersister(cfg.SnapshotDir)
		if err != nil {
			return err
		}
		p = yp
	case "bolt":
		if err := os.MkdirAll(cfg.SnapshotDir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", cfg.SnapshotDir, err)
		}
		bp, err := production.NewBoltPersister(filepath.Join(cfg.SnapshotDir, "snapshots.db"))
		if err != nil {
			return err
		}
		defer bp.Close()
		p = bp
	default:
		jp, err := production.NewJSONPersister(cfg.SnapshotDir)
		if err != nil {
			return err
		}
		p = jp
	}
	return p.Save(ctx, snap)
}
