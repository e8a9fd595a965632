package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/alphatetris/internal/usecase"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("search-failed")
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	defaults := usecase.DefaultSearchConfig()

	configPath := fs.String("config", "", "JSON file overriding the default search config")
	strategy := fs.String("strategy", defaults.Strategy, "search strategy (random, grid, local)")
	trials := fs.Int("trials", defaults.Trials, "weight vectors to try in random search")
	rounds := fs.Int("rounds", defaults.Rounds, "games per weight vector")
	steps := fs.Int("steps", defaults.Steps, "maximum pieces per game")
	baseline := fs.Float64("baseline", 0, fmt.Sprintf("minimum average score to report (default %v for random, %v for grid)", defaults.RandomBaseline, defaults.GridBaseline))
	randomMax := fs.Int("max", defaults.RandomMax, "random weights are drawn from [0, max)")
	local := fs.Bool("local", defaults.LocalRefine, "refine the random search result with local search")
	start := fs.String("start", "", "start vector for local search \"a b c d\"")
	seed := fs.Int64("seed", defaults.Seed, "random search seed (-1 picks one)")
	workers := fs.Int("workers", defaults.Workers, "parallel trials")
	useBitBoard := fs.Bool("bitboard", defaults.UseBitBoard, "use bitboard representation")
	logLevel := fs.String("loglevel", "info", "log level (debug, info, warn, error)")
	cpuProfile := fs.Bool("cpuprofile", false, "write a CPU profile")
	profileDir := fs.String("profiledir", ".", "directory for the CPU profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := usecase.SetupLogger(os.Stderr, *logLevel); err != nil {
		return err
	}
	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.Quiet).Stop()
	}

	config := defaults
	if *configPath != "" {
		var err error
		config, err = usecase.LoadSearchConfig(*configPath, defaults)
		if err != nil {
			return err
		}
	}

	// コマンドラインで明示されたフラグだけ設定ファイルより優先する
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			config.Strategy = *strategy
		case "trials":
			config.Trials = *trials
		case "rounds":
			config.Rounds = *rounds
		case "steps":
			config.Steps = *steps
		case "baseline":
			config.RandomBaseline = *baseline
			config.GridBaseline = *baseline
		case "max":
			config.RandomMax = *randomMax
		case "local":
			config.LocalRefine = *local
		case "seed":
			config.Seed = *seed
		case "workers":
			config.Workers = *workers
		case "bitboard":
			config.UseBitBoard = *useBitBoard
		}
	})
	if *start != "" {
		if _, err := fmt.Sscanf(*start, "%d %d %d %d", &config.Start[0], &config.Start[1], &config.Start[2], &config.Start[3]); err != nil {
			return fmt.Errorf("parse start vector %q: %w", *start, err)
		}
	}
	if config.Seed < 0 {
		config.Seed = int64(frand.Uint64n(math.MaxInt64 / 2))
		log.Info().Int64("seed", config.Seed).Msg("seed-chosen")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("strategy", config.Strategy).
		Int("trials", config.Trials).
		Int("rounds", config.Rounds).
		Int("workers", config.Workers).
		Int64("seed", config.Seed).
		Msg("search-start")

	_, err := usecase.NewSearcher(config, stdout).Run(ctx)
	return err
}
