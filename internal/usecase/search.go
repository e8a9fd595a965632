package usecase

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
)

// SearchResult は探索で見つかった最良の重みと平均スコア
type SearchResult struct {
	Score   float64
	Weights domain.Weights
	// Found は閾値以上の重みが1つでも見つかったかどうか
	Found bool
}

// BestResult は並列のワーカーが共有する最良結果
// 比較と更新は1つのロックの中で行う
type BestResult struct {
	mu      sync.Mutex
	score   float64
	weights domain.Weights
	found   bool
	// order は採用中の候補の列挙順（同点時は小さい方を残す）
	order int
}

// NewBestResult は閾値から始まる最良結果を生成する
// 閾値と同点の候補は採用される
func NewBestResult(baseline float64) *BestResult {
	return &BestResult{score: baseline, order: math.MaxInt}
}

// NewBestResultFrom は既存の重みから始まる最良結果を生成する
// 開始時の重みより真に良い候補だけが採用される
func NewBestResultFrom(score float64, w domain.Weights) *BestResult {
	return &BestResult{score: score, weights: w, found: true, order: -1}
}

// Offer は候補が現在の最良以上なら採用してtrueを返す
// 同点の場合は列挙順の小さい方を残すため、結果は実行順に依存しない
// onAcceptは最初の採用とスコアが真に上がった採用でだけ、ロックを保持したまま呼ばれる
func (b *BestResult) Offer(score float64, w domain.Weights, order int, onAccept func(SearchResult)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if score < b.score || (score == b.score && order >= b.order) {
		return false
	}
	improved := score > b.score || !b.found
	b.score = score
	b.weights = w
	b.found = true
	b.order = order
	if onAccept != nil && improved {
		onAccept(SearchResult{Score: score, Weights: w, Found: true})
	}
	return true
}

// Result は現在の最良結果を返す
func (b *BestResult) Result() SearchResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return SearchResult{Score: b.score, Weights: b.weights, Found: b.found}
}

// Searcher は重み空間を探索して平均スコアを最大化する
type Searcher struct {
	config SearchConfig
	w      io.Writer
}

// NewSearcher は新しいSearcherを生成する
func NewSearcher(config SearchConfig, w io.Writer) *Searcher {
	return &Searcher{config: config, w: w}
}

// EvaluateWeights はシード0..Rounds-1のゲームを順番に実行し、平均スコアを返す
func (s *Searcher) EvaluateWeights(ctx context.Context, w domain.Weights) (float64, error) {
	player := domain.NewHeuristicPlayer(w)
	if s.config.UseBitBoard {
		player = domain.NewHeuristicPlayerWithSelector(domain.NewSolver(domain.NewBitBoardEvaluator(w)))
	}

	scores := make([]int, s.config.Rounds)
	for round := range scores {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		game := domain.NewGame(rand.New(rand.NewSource(int64(round))), s.config.Width, s.config.Height)
		res, err := RunGame(player, NopRenderer{}, game, s.config.Steps)
		if err != nil {
			return 0, fmt.Errorf("weights %s round %d: %w", w, round, err)
		}
		scores[round] = res.Score
	}
	return Mean(scores)
}

// Run は設定された探索を実行し、結果と要約を出力する
func (s *Searcher) Run(ctx context.Context) (SearchResult, error) {
	if err := s.config.Validate(); err != nil {
		return SearchResult{}, err
	}

	start := time.Now()
	var (
		res SearchResult
		err error
	)
	switch s.config.Strategy {
	case StrategyRandom:
		res, err = s.RandomSearch(ctx)
		if err == nil && s.config.LocalRefine && res.Found {
			res, err = s.LocalSearch(ctx, res.Weights, res.Score)
		}
	case StrategyGrid:
		res, err = s.GridSearch(ctx)
	case StrategyLocal:
		res, err = s.LocalSearchFrom(ctx, domain.WeightsFromVector(s.config.Start))
	}
	if err != nil {
		return res, err
	}

	elapsed := time.Since(start)
	fmt.Fprintf(s.w, "Best Average Score: %v Parameters: %s Duration: %s\n",
		res.Score, formatParameters(res), elapsed)
	log.Info().
		Str("strategy", s.config.Strategy).
		Float64("score", res.Score).
		Bool("found", res.Found).
		Ints("weights", vectorSlice(res.Weights)).
		Dur("elapsed", elapsed).
		Msg("search-done")
	return res, nil
}

// RandomSearch は [0, RandomMax)^4 から重みをTrials個選んで並列に評価する
// 試行tの重みはシード Seed+t の乱数から選ぶ
func (s *Searcher) RandomSearch(ctx context.Context) (SearchResult, error) {
	best := NewBestResult(s.config.RandomBaseline)
	prog := s.newProgress("random", s.config.Trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for trial := 0; trial < s.config.Trials; trial++ {
		trial := trial
		g.Go(func() error {
			rng := rand.New(rand.NewSource(s.config.Seed + int64(trial)))
			w := domain.WeightsFromVector([4]int{
				rng.Intn(s.config.RandomMax),
				rng.Intn(s.config.RandomMax),
				rng.Intn(s.config.RandomMax),
				rng.Intn(s.config.RandomMax),
			})
			return s.evaluateTrial(ctx, best, "random", w, trial, prog)
		})
	}
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}
	return best.Result(), nil
}

// GridSearch は設定された範囲の全ての重みを評価する（最初の次元で並列化）
func (s *Searcher) GridSearch(ctx context.Context) (SearchResult, error) {
	grid := s.config.Grid
	total := grid[0].Len() * grid[1].Len() * grid[2].Len() * grid[3].Len()
	best := NewBestResult(s.config.GridBaseline)
	prog := s.newProgress("grid", total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for a := grid[0].Min; a < grid[0].Max; a++ {
		a := a
		g.Go(func() error {
			for b := grid[1].Min; b < grid[1].Max; b++ {
				for c := grid[2].Min; c < grid[2].Max; c++ {
					for d := grid[3].Min; d < grid[3].Max; d++ {
						order := (((a-grid[0].Min)*grid[1].Len()+(b-grid[1].Min))*grid[2].Len()+(c-grid[2].Min))*grid[3].Len() + (d - grid[3].Min)
						w := domain.WeightsFromVector([4]int{a, b, c, d})
						if err := s.evaluateTrial(ctx, best, "grid", w, order, prog); err != nil {
							return err
						}
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}
	return best.Result(), nil
}

// LocalSearchFrom は開始ベクトルを評価してから局所探索を行う
func (s *Searcher) LocalSearchFrom(ctx context.Context, start domain.Weights) (SearchResult, error) {
	score, err := s.EvaluateWeights(ctx, start)
	if err != nil {
		return SearchResult{}, err
	}
	log.Info().Float64("score", score).Ints("weights", vectorSlice(start)).Msg("local-search-start")
	return s.LocalSearch(ctx, start, score)
}

// LocalSearch は各次元±1の近傍3^4=81個を評価し、真に良くなった場合だけ採用する
func (s *Searcher) LocalSearch(ctx context.Context, start domain.Weights, startScore float64) (SearchResult, error) {
	best := NewBestResultFrom(startScore, start)
	prog := s.newProgress("local", 81)
	v := start.Vector()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for da := -1; da <= 1; da++ {
		da := da
		g.Go(func() error {
			for db := -1; db <= 1; db++ {
				for dc := -1; dc <= 1; dc++ {
					for dd := -1; dd <= 1; dd++ {
						order := (((da+1)*3+(db+1))*3+(dc+1))*3 + (dd + 1)
						w := domain.WeightsFromVector([4]int{v[0] + da, v[1] + db, v[2] + dc, v[3] + dd})
						if err := s.evaluateTrial(ctx, best, "local", w, order, prog); err != nil {
							return err
						}
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}
	return best.Result(), nil
}

// evaluateTrial は1つの重みを評価して共有の最良結果に提案する
func (s *Searcher) evaluateTrial(ctx context.Context, best *BestResult, phase string, w domain.Weights, order int, prog *progress) error {
	score, err := s.EvaluateWeights(ctx, w)
	if err != nil {
		return err
	}
	log.Debug().Str("phase", phase).Int("order", order).Float64("score", score).Ints("weights", vectorSlice(w)).Msg("trial")

	best.Offer(score, w, order, func(r SearchResult) {
		fmt.Fprintf(s.w, "%v %s\n", r.Score, r.Weights)
		log.Info().Str("phase", phase).Float64("score", r.Score).Ints("weights", vectorSlice(r.Weights)).Msg("improvement")
	})
	prog.tick()
	return nil
}

func (s *Searcher) workers() int {
	return max(s.config.Workers, 1)
}

// progress は一定割合ごとに進捗をログに出す
type progress struct {
	phase string
	total int
	every int64
	done  atomic.Int64
}

func (s *Searcher) newProgress(phase string, total int) *progress {
	p := &progress{phase: phase, total: total}
	if s.config.ProgressPercent > 0 {
		p.every = int64(max(total*s.config.ProgressPercent/100, 1))
	}
	return p
}

func (p *progress) tick() {
	n := p.done.Add(1)
	if p.every > 0 && n%p.every == 0 {
		log.Info().Str("phase", p.phase).Int64("done", n).Int("total", p.total).Msg("search-progress")
	}
}

func formatParameters(res SearchResult) string {
	if !res.Found {
		return ""
	}
	v := res.Weights.Vector()
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}

func vectorSlice(w domain.Weights) []int {
	v := w.Vector()
	return v[:]
}
