package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
)

// 探索の種類
const (
	StrategyRandom = "random"
	StrategyGrid   = "grid"
	StrategyLocal  = "local"
)

// Range は重みの探索範囲 [Min, Max)
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Len は範囲に含まれる値の数を返す
func (r Range) Len() int {
	if r.Max <= r.Min {
		return 0
	}
	return r.Max - r.Min
}

// 標準の盤面での採用閾値
const (
	DefaultRandomBaseline = 1450
	DefaultGridBaseline   = 1500
)

// SearchConfig はパラメータ探索の設定
type SearchConfig struct {
	Strategy string `json:"strategy"`
	// Trials はランダム探索で試す重みベクトルの数
	Trials int `json:"trials"`
	// Rounds は1つの重みベクトルあたりのゲーム数（シード0..Rounds-1）
	Rounds int `json:"rounds"`
	// Steps は1ゲームあたりの最大手数
	Steps  int `json:"steps"`
	Width  int `json:"width"`
	Height int `json:"height"`
	// RandomBaseline, GridBaseline はこれ以上の平均スコアで初めて採用する閾値
	RandomBaseline float64 `json:"random_baseline"`
	GridBaseline   float64 `json:"grid_baseline"`
	// RandomMax はランダム探索で各重みを [0, RandomMax) から選ぶ
	RandomMax int `json:"random_max"`
	// Grid は総当たり探索の範囲（合計高さ, 消去ライン, 穴, 凸凹）
	Grid [4]Range `json:"grid"`
	// Start は局所探索の開始ベクトル
	Start [4]int `json:"start"`
	// LocalRefine はランダム探索の後に局所探索を行う
	LocalRefine bool  `json:"local_refine"`
	Seed        int64 `json:"seed"`
	Workers     int   `json:"workers"`
	UseBitBoard bool  `json:"use_bitboard"`
	// ProgressPercent は進捗ログを出す間隔（%）
	ProgressPercent int `json:"progress_percent"`
}

// DefaultSearchConfig はデフォルトの設定を返す
// 総当たり探索の範囲は過去のチューニング結果の周辺
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Strategy:  StrategyRandom,
		Trials:    1000,
		Rounds:    1000,
		Steps:     DefaultSteps,
		Width:     domain.DefaultWidth,
		Height:    domain.DefaultHeight,
		RandomBaseline: DefaultRandomBaseline,
		GridBaseline:   DefaultGridBaseline,
		RandomMax:      10,
		Grid: [4]Range{
			{Min: 885, Max: 895},
			{Min: 915, Max: 925},
			{Min: 885, Max: 895},
			{Min: 395, Max: 405},
		},
		Start:           domain.DefaultWeights.Vector(),
		LocalRefine:     false,
		Seed:            0,
		Workers:         runtime.NumCPU(),
		UseBitBoard:     false,
		ProgressPercent: 10,
	}
}

// LoadSearchConfig はJSONファイルの内容をbaseに上書きして返す
func LoadSearchConfig(path string, base SearchConfig) (SearchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read search config: %w", err)
	}
	config := base
	if err := json.Unmarshal(data, &config); err != nil {
		return base, fmt.Errorf("parse search config %s: %w", path, err)
	}
	return config, nil
}

// Validate は設定の整合性を検査する
func (c SearchConfig) Validate() error {
	var errs []error
	switch c.Strategy {
	case StrategyRandom, StrategyGrid, StrategyLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown strategy %q", c.Strategy))
	}
	if c.Rounds <= 0 {
		errs = append(errs, fmt.Errorf("rounds must be positive, got %d", c.Rounds))
	}
	if c.Steps <= 0 {
		errs = append(errs, fmt.Errorf("steps must be positive, got %d", c.Steps))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid board size %dx%d", c.Width, c.Height))
	}
	if c.UseBitBoard && c.Width > domain.MaxBitBoardWidth {
		errs = append(errs, fmt.Errorf("bitboard supports width up to %d, got %d", domain.MaxBitBoardWidth, c.Width))
	}
	if c.Strategy == StrategyRandom && c.RandomMax <= 0 {
		errs = append(errs, fmt.Errorf("random_max must be positive, got %d", c.RandomMax))
	}
	if c.Strategy == StrategyGrid {
		for i, r := range c.Grid {
			if r.Len() == 0 {
				errs = append(errs, fmt.Errorf("grid range %d is empty: [%d, %d)", i, r.Min, r.Max))
			}
		}
	}
	return errors.Join(errs...)
}
