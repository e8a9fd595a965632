package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
)

// smallSearchConfig は小さな盤面と少ない手数で探索を高速に回す設定
func smallSearchConfig() SearchConfig {
	config := DefaultSearchConfig()
	config.Trials = 6
	config.Rounds = 2
	config.Steps = 30
	config.Width = 6
	config.Height = 10
	config.RandomMax = 4
	config.Workers = 3
	config.ProgressPercent = 0
	config.RandomBaseline = 0
	config.GridBaseline = 0
	return config
}

func TestBestResultOffer(t *testing.T) {
	best := NewBestResult(10)
	w := func(a int) domain.Weights { return domain.WeightsFromVector([4]int{a, 0, 0, 0}) }

	if best.Offer(9, w(1), 0, nil) {
		t.Error("score below baseline should be rejected")
	}
	if best.Result().Found {
		t.Error("nothing should be found yet")
	}
	if !best.Offer(10, w(2), 5, nil) {
		t.Error("score equal to baseline should be accepted")
	}
	if best.Offer(10, w(3), 7, nil) {
		t.Error("tie with a later candidate should be rejected")
	}
	if !best.Offer(10, w(4), 2, nil) {
		t.Error("tie with an earlier candidate should be accepted")
	}

	var reported []SearchResult
	if !best.Offer(11, w(5), 9, func(r SearchResult) { reported = append(reported, r) }) {
		t.Error("strictly better score should be accepted")
	}
	if len(reported) != 1 || reported[0].Score != 11 {
		t.Errorf("expected one report for score 11, got %+v", reported)
	}

	res := best.Result()
	if res.Score != 11 || res.Weights != w(5) || !res.Found {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestBestResultFromKeepsStartOnTie(t *testing.T) {
	start := domain.WeightsFromVector([4]int{1, 2, 3, 4})
	best := NewBestResultFrom(50, start)

	if best.Offer(50, domain.WeightsFromVector([4]int{0, 0, 0, 0}), 0, nil) {
		t.Error("tie with the starting weights should be rejected")
	}
	if res := best.Result(); res.Weights != start || !res.Found {
		t.Errorf("expected starting weights to remain, got %+v", res)
	}
}

func TestEvaluateWeightsMatchesGames(t *testing.T) {
	config := smallSearchConfig()
	searcher := NewSearcher(config, &bytes.Buffer{})

	got, err := searcher.EvaluateWeights(context.Background(), domain.DefaultWeights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	autoplay := DefaultAutoPlayConfig()
	autoplay.Rounds = config.Rounds
	autoplay.Steps = config.Steps
	autoplay.Width = config.Width
	autoplay.Height = config.Height
	tournament, err := Tournament(context.Background(), &buf, autoplay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tournament.Mean {
		t.Errorf("EvaluateWeights = %v, tournament mean = %v", got, tournament.Mean)
	}

	config.UseBitBoard = true
	withBitBoard, err := NewSearcher(config, &bytes.Buffer{}).EvaluateWeights(context.Background(), domain.DefaultWeights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withBitBoard != got {
		t.Errorf("bitboard evaluation %v differs from %v", withBitBoard, got)
	}
}

func TestEvaluateWeightsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSearcher(smallSearchConfig(), &bytes.Buffer{}).EvaluateWeights(ctx, domain.DefaultWeights)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRandomSearchIsReproducible(t *testing.T) {
	run := func(workers int) SearchResult {
		t.Helper()
		config := smallSearchConfig()
		config.Workers = workers
		config.Seed = 7
		res, err := NewSearcher(config, &bytes.Buffer{}).RandomSearch(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res
	}

	first := run(1)
	second := run(4)
	if first != second {
		t.Errorf("results differ between runs: %+v vs %+v", first, second)
	}
	if !first.Found {
		t.Error("baseline 0 should always be reached")
	}
	for i, x := range first.Weights.Vector() {
		if x < 0 || x >= 4 {
			t.Errorf("weight %d = %d is outside [0, 4)", i, x)
		}
	}
}

func TestRandomSearchBaselineNotReached(t *testing.T) {
	config := smallSearchConfig()
	config.RandomBaseline = 1e12
	var out bytes.Buffer
	res, err := NewSearcher(config, &out).RandomSearch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Found {
		t.Errorf("no weights should beat the baseline, got %+v", res)
	}
	if out.Len() != 0 {
		t.Errorf("no improvement lines expected, got %q", out.String())
	}
}

func TestGridSearchCoversRanges(t *testing.T) {
	config := smallSearchConfig()
	config.Strategy = StrategyGrid
	config.Grid = [4]Range{{Min: 3, Max: 5}, {Min: 9, Max: 10}, {Min: 7, Max: 9}, {Min: 2, Max: 3}}

	run := func(workers int) SearchResult {
		t.Helper()
		c := config
		c.Workers = workers
		res, err := NewSearcher(c, &bytes.Buffer{}).GridSearch(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res
	}

	res := run(1)
	if res != run(2) {
		t.Error("grid search should not depend on the number of workers")
	}
	v := res.Weights.Vector()
	for i, r := range config.Grid {
		if v[i] < r.Min || v[i] >= r.Max {
			t.Errorf("weight %d = %d is outside [%d, %d)", i, v[i], r.Min, r.Max)
		}
	}
}

func TestLocalSearchNeverWorsens(t *testing.T) {
	config := smallSearchConfig()
	searcher := NewSearcher(config, &bytes.Buffer{})
	start := domain.DefaultWeights

	startScore, err := searcher.EvaluateWeights(context.Background(), start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := searcher.LocalSearch(context.Background(), start, startScore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score < startScore {
		t.Errorf("local search worsened the score: %v < %v", res.Score, startScore)
	}
	a, b := start.Vector(), res.Weights.Vector()
	for i := range a {
		if d := a[i] - b[i]; d < -1 || d > 1 {
			t.Errorf("dimension %d moved by %d", i, d)
		}
	}
}

func TestRunPrintsSummary(t *testing.T) {
	config := smallSearchConfig()
	config.Strategy = StrategyLocal
	config.Rounds = 1
	config.Steps = 10

	var out bytes.Buffer
	res, err := NewSearcher(config, &out).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Error("local search always has a result")
	}
	if !strings.Contains(out.String(), "Best Average Score:") || !strings.Contains(out.String(), "Parameters:") {
		t.Errorf("missing summary line:\n%s", out.String())
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	config := smallSearchConfig()
	config.Strategy = "annealing"
	if _, err := NewSearcher(config, &bytes.Buffer{}).Run(context.Background()); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestSearchConfigValidate(t *testing.T) {
	if err := DefaultSearchConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	config := DefaultSearchConfig()
	config.Rounds = 0
	config.Steps = -1
	err := config.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "rounds") || !strings.Contains(err.Error(), "steps") {
		t.Errorf("expected both problems reported, got %v", err)
	}

	config = DefaultSearchConfig()
	config.Strategy = StrategyGrid
	config.Grid[2] = Range{Min: 5, Max: 5}
	if err := config.Validate(); err == nil {
		t.Error("expected error for empty grid range")
	}
}

func TestLoadSearchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.json")
	body := `{"strategy": "grid", "rounds": 5, "grid": [{"min": 1, "max": 3}, {"min": 0, "max": 1}, {"min": 0, "max": 1}, {"min": 0, "max": 1}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	config, err := LoadSearchConfig(path, DefaultSearchConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Strategy != StrategyGrid || config.Rounds != 5 {
		t.Errorf("overlay not applied: %+v", config)
	}
	if config.Trials != DefaultSearchConfig().Trials {
		t.Errorf("unset fields should keep defaults, got trials %d", config.Trials)
	}
	if config.Grid[0] != (Range{Min: 1, Max: 3}) {
		t.Errorf("unexpected grid %+v", config.Grid)
	}

	if _, err := LoadSearchConfig(filepath.Join(t.TempDir(), "missing.json"), DefaultSearchConfig()); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadSearchConfig(bad, DefaultSearchConfig()); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestBestResultReportsOnlyStrictImprovements(t *testing.T) {
	var reported []SearchResult
	report := func(r SearchResult) { reported = append(reported, r) }
	w := func(a int) domain.Weights { return domain.WeightsFromVector([4]int{a, 0, 0, 0}) }

	best := NewBestResultFrom(20, w(0))
	if !best.Offer(25, w(1), 40, report) {
		t.Fatal("strictly better score should be accepted")
	}
	if !best.Offer(25, w(2), 3, report) {
		t.Fatal("tie with an earlier candidate should be accepted")
	}
	if len(reported) != 1 || reported[0].Weights != w(1) {
		t.Errorf("tie should replace the result silently, got reports %+v", reported)
	}
	if res := best.Result(); res.Weights != w(2) {
		t.Errorf("expected the earlier candidate to be kept, got %+v", res)
	}

	// 閾値と同点の最初の採用は報告する
	reported = nil
	fromBaseline := NewBestResult(10)
	fromBaseline.Offer(10, w(3), 0, report)
	if len(reported) != 1 {
		t.Errorf("first acceptance should be reported, got %+v", reported)
	}
}

func TestSearchOutputFormat(t *testing.T) {
	config := smallSearchConfig()
	config.Strategy = StrategyGrid
	config.Workers = 1
	config.Grid = [4]Range{{Min: 1, Max: 3}, {Min: 5, Max: 7}, {Min: 2, Max: 3}, {Min: 0, Max: 2}}

	var out bytes.Buffer
	res, err := NewSearcher(config, &out).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected improvement lines and a summary, got %q", out.String())
	}

	prev := -1.0
	var last domain.Weights
	for _, line := range lines[:len(lines)-1] {
		var score float64
		var v [4]int
		if n, err := fmt.Sscanf(line, "%g %d %d %d %d", &score, &v[0], &v[1], &v[2], &v[3]); err != nil || n != 5 {
			t.Fatalf("malformed improvement line %q: %v", line, err)
		}
		if line != fmt.Sprintf("%v %d %d %d %d", score, v[0], v[1], v[2], v[3]) {
			t.Errorf("unexpected spacing in %q", line)
		}
		for i, r := range config.Grid {
			if v[i] < r.Min || v[i] >= r.Max {
				t.Errorf("line %q: weight %d outside [%d, %d)", line, i, r.Min, r.Max)
			}
		}
		if score <= prev {
			t.Errorf("line %q does not improve on %v", line, prev)
		}
		prev = score
		last = domain.WeightsFromVector(v)
	}
	if prev != res.Score || last != res.Weights {
		t.Errorf("last improvement %v %s differs from result %+v", prev, last, res)
	}

	v := res.Weights.Vector()
	summary := regexp.MustCompile(`^Best Average Score: (\S+) Parameters: (\d+),(\d+),(\d+),(\d+) Duration: \S+$`)
	m := summary.FindStringSubmatch(lines[len(lines)-1])
	if m == nil {
		t.Fatalf("malformed summary %q", lines[len(lines)-1])
	}
	if m[1] != fmt.Sprint(res.Score) {
		t.Errorf("summary score %s, want %v", m[1], res.Score)
	}
	if want := fmt.Sprintf("%d,%d,%d,%d", v[0], v[1], v[2], v[3]); strings.Join(m[2:], ",") != want {
		t.Errorf("summary parameters %v, want %s", m[2:], want)
	}
}

func TestEvaluateWeightsBoardNarrowerThanPieces(t *testing.T) {
	config := smallSearchConfig()
	config.Width = 1
	if err := config.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	// 縦のIだけが置けるので、それ以外のピースが出た時点でゲームが終わる
	if _, err := NewSearcher(config, &bytes.Buffer{}).EvaluateWeights(context.Background(), domain.DefaultWeights); err != nil {
		t.Fatalf("pieces that fit nowhere should end the game, got %v", err)
	}
}

func TestTournamentRandomPlayerNarrowBoard(t *testing.T) {
	config := DefaultAutoPlayConfig()
	config.Player = PlayerRandom
	config.PlayerSeed = 11
	config.Width = 3
	config.Height = 8
	config.Rounds = 3
	config.Steps = 50

	if _, err := Tournament(context.Background(), &bytes.Buffer{}, config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
