package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
)

// プレイヤーの種類
const (
	PlayerHeuristic = "heuristic"
	PlayerRandom    = "random"
)

// DefaultSteps は1ゲームあたりの最大手数
const DefaultSteps = 100000

// AutoPlayConfig は自動プレイの設定
type AutoPlayConfig struct {
	Width       int
	Height      int
	Steps       int
	Delay       time.Duration
	Player      string
	Weights     domain.Weights
	UseParallel bool
	UseBitBoard bool
	Verbose     bool
	Seed        int64
	// PlayerSeed はRandomPlayerの乱数シード（0ならfrandで決める）
	PlayerSeed int64
	Rounds     int
	Workers    int
}

// DefaultAutoPlayConfig はデフォルトの設定を返す
func DefaultAutoPlayConfig() AutoPlayConfig {
	return AutoPlayConfig{
		Width:       domain.DefaultWidth,
		Height:      domain.DefaultHeight,
		Steps:       DefaultSteps,
		Delay:       100 * time.Millisecond,
		Player:      PlayerHeuristic,
		Weights:     domain.DefaultWeights,
		UseParallel: false,
		UseBitBoard: false,
		Verbose:     true,
		Seed:        0,
		Rounds:      1000,
		Workers:     runtime.NumCPU(),
	}
}

// GameResult は1ゲームの結果
type GameResult struct {
	Score  int
	Lines  int
	Pieces int
}

// NewEvaluator は設定に応じたEvaluatorを返す
func NewEvaluator(w domain.Weights, useBitBoard bool) domain.Evaluator {
	if useBitBoard {
		return domain.NewBitBoardEvaluator(w)
	}
	return domain.NewHeuristicEvaluator(w)
}

// NewPlayer は設定に応じたプレイヤーを生成する
// roundはRandomPlayerのシードをずらすために使う
func NewPlayer(config AutoPlayConfig, round int) (domain.Player, error) {
	switch config.Player {
	case PlayerHeuristic:
		evaluator := NewEvaluator(config.Weights, config.UseBitBoard)
		if config.UseParallel {
			return domain.NewHeuristicPlayerWithSelector(domain.NewParallelSolver(evaluator)), nil
		}
		return domain.NewHeuristicPlayerWithSelector(domain.NewSolver(evaluator)), nil
	case PlayerRandom:
		seed := config.PlayerSeed
		if seed == 0 {
			seed = int64(frand.Uint64n(math.MaxInt64))
		}
		return domain.NewRandomPlayer(rand.New(rand.NewSource(seed + int64(round)))), nil
	default:
		return nil, fmt.Errorf("unknown player %q", config.Player)
	}
}

// RunGame は最大steps手までゲームを進め、結果を返す
// ゲームオーバーとプレイヤーの中断はエラーとして返さない
func RunGame(player domain.Player, renderer Renderer, game *domain.Game, steps int) (GameResult, error) {
	player.Init()

	for i := 0; i < steps; i++ {
		snapshot := game.Snapshot()
		cmd, err := player.Step(snapshot)
		if errors.Is(err, domain.ErrQuit) {
			log.Debug().Int("step", i).Msg("player-quit")
			break
		}
		if err != nil {
			return result(game), fmt.Errorf("step %d: %w", i, err)
		}

		renderer.Render(cmd, snapshot)

		if err := game.Apply(cmd); err != nil {
			if errors.Is(err, domain.ErrGameOver) {
				log.Debug().Int("step", i).Int("score", game.Score()).Msg("game-over")
				break
			}
			return result(game), fmt.Errorf("step %d: %w", i, err)
		}
	}

	return result(game), nil
}

func result(game *domain.Game) GameResult {
	return GameResult{
		Score:  game.Score(),
		Lines:  game.Lines(),
		Pieces: game.Pieces(),
	}
}

// AutoPlay は自動で1ゲームをプレイする
func AutoPlay(w io.Writer, config AutoPlayConfig) (GameResult, error) {
	player, err := NewPlayer(config, 0)
	if err != nil {
		return GameResult{}, err
	}

	var renderer Renderer = NopRenderer{}
	if config.Verbose {
		fmt.Fprintln(w, "=== Tetris AutoPlay ===")
		fmt.Fprintf(w, "Player: %s, Seed: %d, Board: %dx%d\n\n", config.Player, config.Seed, config.Width, config.Height)
		renderer = NewTextRenderer(w, config.Delay)
	}

	game := domain.NewGame(rand.New(rand.NewSource(config.Seed)), config.Width, config.Height)
	res, err := RunGame(player, renderer, game, config.Steps)
	if err != nil {
		return res, err
	}

	// 最終結果は常に表示
	fmt.Fprint(w, game.Board())
	fmt.Fprintln(w, "=== Game Over ===")
	fmt.Fprintf(w, "Final Score: %d\n", res.Score)
	fmt.Fprintf(w, "Total Lines: %d\n", res.Lines)
	fmt.Fprintf(w, "Total Pieces: %d\n", res.Pieces)

	return res, nil
}

// TournamentResult はトーナメントの集計
type TournamentResult struct {
	Scores []int
	Total  int
	Mean   float64
	Median float64
}

// Tournament はシード0..Rounds-1のゲームを並列に実行して集計する
func Tournament(ctx context.Context, w io.Writer, config AutoPlayConfig) (TournamentResult, error) {
	scores := make([]int, config.Rounds)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	for round := 0; round < config.Rounds; round++ {
		round := round
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			player, err := NewPlayer(config, round)
			if err != nil {
				return err
			}
			game := domain.NewGame(rand.New(rand.NewSource(int64(round))), config.Width, config.Height)
			res, err := RunGame(player, NopRenderer{}, game, config.Steps)
			if err != nil {
				return fmt.Errorf("round %d: %w", round, err)
			}
			scores[round] = res.Score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TournamentResult{}, err
	}

	mean, err := Mean(scores)
	if err != nil {
		return TournamentResult{}, err
	}
	median, err := Median(scores)
	if err != nil {
		return TournamentResult{}, err
	}

	res := TournamentResult{
		Scores: scores,
		Total:  Sum(scores),
		Mean:   mean,
		Median: median,
	}
	fmt.Fprintf(w, "Final Score: %d\n", res.Total)
	fmt.Fprintf(w, "Average: %v, Median: %v, Rounds: %d\n", res.Mean, res.Median, config.Rounds)
	return res, nil
}
