package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
	"github.com/nnaakkaaii/alphatetris/internal/usecase"
)

func main() {
	width := flag.Int("width", domain.DefaultWidth, "board width")
	height := flag.Int("height", domain.DefaultHeight, "board height")
	weights := flag.String("weights", domain.DefaultWeights.String(), "heuristic weights \"height lines holes bumpiness\"")
	useBitBoard := flag.Bool("bitboard", false, "use bitboard representation")
	logLevel := flag.String("loglevel", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := usecase.SetupLogger(os.Stderr, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var v [4]int
	if _, err := fmt.Sscanf(*weights, "%d %d %d %d", &v[0], &v[1], &v[2], &v[3]); err != nil {
		log.Fatal().Err(err).Str("weights", *weights).Msg("bad-weights")
	}
	solver := domain.NewSolver(usecase.NewEvaluator(domain.WeightsFromVector(v), *useBitBoard))

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("=== Tetris Placement Analyzer ===")
	fmt.Printf("Enter %d rows of %d cells ('.' empty, '#' filled), then a piece letter (I O T S Z J L).\n", *height, *width)
	fmt.Println("Enter 'quit' to exit.")
	fmt.Println()

	for {
		board, ok := inputBoard(scanner, *width, *height)
		if !ok {
			return
		}
		piece, ok := inputPiece(scanner)
		if !ok {
			return
		}

		snapshot := domain.Snapshot{Board: board, Piece: piece}
		best := solver.BestMove(snapshot)

		fmt.Println("\nCurrent board:")
		fmt.Print(board)
		fmt.Printf("\n=== Recommended: offset %d rotation %d ===\n", best.Offset, best.Rotation)
		fmt.Print(usecase.RenderPlacement(best, snapshot))

		fmt.Println("\nCandidate scores:")
		for _, c := range solver.Analyze(snapshot) {
			fmt.Printf("  offset %2d rotation %d: %d", c.Command.Offset, c.Command.Rotation, c.Score)
			if c.Command == best {
				fmt.Print(" <- BEST")
			}
			fmt.Println()
		}
		fmt.Println()
	}
}

func inputBoard(scanner *bufio.Scanner, width, height int) (domain.Board, bool) {
	rows := make([]string, 0, height)
	for len(rows) < height {
		if !scanner.Scan() {
			return domain.Board{}, false
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			return domain.Board{}, false
		}
		if line == "" {
			continue
		}
		if len(line) != width || strings.Trim(line, ".#") != "" {
			fmt.Printf("Error: row must be %d characters of '.' or '#'\n", width)
			continue
		}
		rows = append(rows, line)
	}
	return domain.NewBoardFromRows(rows), true
}

func inputPiece(scanner *bufio.Scanner) (domain.Piece, bool) {
	for {
		fmt.Print("Piece: ")
		if !scanner.Scan() {
			return domain.Piece{}, false
		}
		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if line == "QUIT" {
			return domain.Piece{}, false
		}
		t, err := domain.ParsePieceType(line)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		return domain.NewPiece(t), true
	}
}
