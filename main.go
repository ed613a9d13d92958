package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikhrachel/go-gol-tiles/engine"
	"github.com/sheikhrachel/go-gol-tiles/model"
	"github.com/sheikhrachel/go-gol-tiles/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	algorithm := flag.String("algorithm", "", "Engine override: neighbor-count or quadtree")
	outputDir := flag.String("output-dir", "", "Output directory for steps.csv and config snapshot")
	maxGenerations := flag.Int("max-generations", -1, "Stop after N generations (-1 = use config, 0 = unlimited)")
	headless := flag.Bool("headless", false, "Run without terminal rendering")
	verbose := flag.Bool("v", false, "Log structural changes")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *algorithm != "" {
		if config.Algorithm, err = engine.ParseAlgorithm(*algorithm); err != nil {
			slog.Error("invalid algorithm flag", "error", err)
			os.Exit(1)
		}
	}
	if *outputDir != "" {
		config.Stats.OutputDir = *outputDir
	}
	if *maxGenerations >= 0 {
		config.MaxGenerations = *maxGenerations
	}
	if *headless {
		config.Render.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config utils.Config, logger *slog.Logger) error {
	out := os.Stdout
	s, renderer, stats, err := initializeGame(config, logger, out)
	if err != nil {
		return err
	}

	output, err := utils.NewOutputManager(config.Stats.OutputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(config); err != nil {
		return err
	}

	displayGameInfo(out, config, s)

	var (
		history       model.History
		stagnantCount = 0
		lastFrameTime = time.Now()
		origin        = model.Coord{X: config.Render.OriginX, Y: config.Render.OriginY}
	)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\n🛑 Shutting down gracefully...")
			slog.Info("final stats", "stats", stats)
			return nil
		default:
			// Continue with game loop
		}

		frameStart := time.Now()
		res, err := s.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			return err
		}

		status, isStagnant := updateGameState(res, lastFrameTime, stats, &history, s)
		lastFrameTime = frameStart

		if isStagnant {
			stagnantCount++
		} else if !res.Skipped && !res.Frozen {
			stagnantCount = 0
		}

		if !res.Skipped && !res.Frozen {
			if err := output.WriteStep(stepRecord(res.Stats)); err != nil {
				slog.Error("failed to write step", "error", err)
			}
			if config.Stats.LogEvery > 0 && res.Stats.Generation%config.Stats.LogEvery == 0 {
				slog.Info("step", "stats", res.Stats, "window", stats)
			}
		}

		if config.Render.Enabled {
			renderer.Clear()
			displayGameStatus(out, res.Stats, status, stats)
			renderer.Display(s.WindowGrid(origin, config.Render.WindowTiles))
		}

		if done, reason := checkStopConditions(res.Stats, stagnantCount, config); done {
			fmt.Fprintf(out, "\n🏁 Stopping due to %s\n", reason)
			slog.Info("run finished", "reason", reason, "stats", stats)
			return nil
		}

		// Wait before next frame
		select {
		case <-ctx.Done():
		case <-time.After(config.FrameRate):
		}
	}
}
