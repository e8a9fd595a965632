package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
	"github.com/nnaakkaaii/alphatetris/internal/usecase"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("autoplay-failed")
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("autoplay", flag.ContinueOnError)
	config := usecase.DefaultAutoPlayConfig()

	player := fs.String("player", config.Player, "player type (heuristic, random)")
	weights := fs.String("weights", config.Weights.String(), "heuristic weights \"height lines holes bumpiness\"")
	tournament := fs.Bool("tournament", false, "play seeds 0..rounds-1 in parallel and report the average")
	rounds := fs.Int("rounds", config.Rounds, "number of games in tournament mode")
	workers := fs.Int("workers", config.Workers, "parallel games in tournament mode")
	steps := fs.Int("steps", config.Steps, "maximum pieces per game")
	seed := fs.Int64("seed", config.Seed, "piece sequence seed")
	playerSeed := fs.Int64("player-seed", 0, "random player seed (0 picks one)")
	width := fs.Int("width", config.Width, "board width")
	height := fs.Int("height", config.Height, "board height")
	delay := fs.Int("delay", 100, "delay between moves (ms)")
	useParallel := fs.Bool("parallel", false, "evaluate rotations in parallel")
	useBitBoard := fs.Bool("bitboard", false, "use bitboard representation")
	quiet := fs.Bool("quiet", false, "suppress output")
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

	w, err := parseWeights(*weights)
	if err != nil {
		return err
	}

	config.Player = *player
	config.Weights = w
	config.Rounds = *rounds
	config.Workers = *workers
	config.Steps = *steps
	config.Seed = *seed
	config.PlayerSeed = *playerSeed
	config.Width = *width
	config.Height = *height
	config.Delay = time.Duration(*delay) * time.Millisecond
	config.UseParallel = *useParallel
	config.UseBitBoard = *useBitBoard
	config.Verbose = !*quiet

	if *tournament {
		start := time.Now()
		res, err := usecase.Tournament(context.Background(), stdout, config)
		if err != nil {
			return err
		}
		log.Info().Float64("mean", res.Mean).Float64("median", res.Median).Dur("elapsed", time.Since(start)).Msg("tournament-done")
		return nil
	}

	_, err = usecase.AutoPlay(stdout, config)
	return err
}

func parseWeights(s string) (domain.Weights, error) {
	var v [4]int
	if _, err := fmt.Sscanf(s, "%d %d %d %d", &v[0], &v[1], &v[2], &v[3]); err != nil {
		return domain.Weights{}, fmt.Errorf("parse weights %q: %w", s, err)
	}
	return domain.WeightsFromVector(v), nil
}
