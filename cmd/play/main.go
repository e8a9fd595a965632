package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
	"github.com/nnaakkaaii/alphatetris/internal/usecase"
)

func main() {
	seed := flag.Int64("seed", 0, "piece sequence seed (0 uses the current time)")
	width := flag.Int("width", domain.DefaultWidth, "board width")
	height := flag.Int("height", domain.DefaultHeight, "board height")
	logLevel := flag.String("loglevel", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := usecase.SetupLogger(os.Stderr, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	if _, err := usecase.PlayGame(os.Stdin, os.Stdout, rng, *width, *height); err != nil {
		log.Fatal().Err(err).Msg("play-failed")
	}
}
