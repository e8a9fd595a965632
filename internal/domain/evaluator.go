package domain

import "fmt"

// 固定の重み（探索対象外）
const (
	ToppedOutPenalty = 1000000
	MaxHeightWeight  = 8
	// TopOutRows はトップアウトとみなす上端からの行数
	TopOutRows = 3
)

// Weights は探索対象の4つの重み（いずれも大きさ、符号は評価時に付ける）
type Weights struct {
	TotalHeight  int
	ClearedLines int
	Holes        int
	Bumpiness    int
}

// DefaultWeights は手調整済みの基準重み
var DefaultWeights = Weights{
	TotalHeight:  4,
	ClearedLines: 10,
	Holes:        8,
	Bumpiness:    3,
}

// WeightsFromVector は[合計高さ, 消去ライン, 穴, 凸凹]の順のベクトルからWeightsを生成する
func WeightsFromVector(v [4]int) Weights {
	return Weights{
		TotalHeight:  v[0],
		ClearedLines: v[1],
		Holes:        v[2],
		Bumpiness:    v[3],
	}
}

// Vector は[合計高さ, 消去ライン, 穴, 凸凹]の順のベクトルを返す
func (w Weights) Vector() [4]int {
	return [4]int{w.TotalHeight, w.ClearedLines, w.Holes, w.Bumpiness}
}

// String は "a b c d" 形式の文字列を返す
func (w Weights) String() string {
	return fmt.Sprintf("%d %d %d %d", w.TotalHeight, w.ClearedLines, w.Holes, w.Bumpiness)
}

// Evaluator はBoardを評価してスコアを返すインターフェース
type Evaluator interface {
	Evaluate(b Board) int
}

// WeightedEvaluator は複数のEvaluatorを係数付きで組み合わせる
type WeightedEvaluator struct {
	evaluators []Evaluator
	weights    []int
}

// NewWeightedEvaluator は係数付きEvaluatorを生成する
func NewWeightedEvaluator(evaluators []Evaluator, weights []int) *WeightedEvaluator {
	return &WeightedEvaluator{
		evaluators: evaluators,
		weights:    weights,
	}
}

// NewHeuristicEvaluator は6つの指標を重み付きで合計するEvaluatorを生成する
func NewHeuristicEvaluator(w Weights) *WeightedEvaluator {
	return NewWeightedEvaluator(
		[]Evaluator{
			&ClearedLinesEvaluator{},
			&ToppedOutEvaluator{},
			&HoleCountEvaluator{},
			&MaxHeightEvaluator{},
			&TotalHeightEvaluator{},
			&BumpinessEvaluator{},
		},
		[]int{
			w.ClearedLines,
			-ToppedOutPenalty,
			-w.Holes,
			-MaxHeightWeight,
			-w.TotalHeight,
			-w.Bumpiness,
		},
	)
}

// Evaluate は全てのEvaluatorの重み付き和を返す
func (w *WeightedEvaluator) Evaluate(b Board) int {
	score := 0
	for i, ev := range w.evaluators {
		score += w.weights[i] * ev.Evaluate(b)
	}
	return score
}

// ClearedLinesEvaluator は揃っている行の数で評価する
type ClearedLinesEvaluator struct{}

func (e *ClearedLinesEvaluator) Evaluate(b Board) int {
	count := 0
	for y := 0; y < b.height; y++ {
		if b.rowFull(y) {
			count++
		}
	}
	return count
}

// ToppedOutEvaluator は上端3行のいずれかに埋まりマスがあれば1を返す
type ToppedOutEvaluator struct{}

func (e *ToppedOutEvaluator) Evaluate(b Board) int {
	rows := TopOutRows
	if rows > b.height {
		rows = b.height
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < b.width; x++ {
			if b.Get(x, y) {
				return 1
			}
		}
	}
	return 0
}

// HoleCountEvaluator は同じ列の上方に埋まりマスがある空きマスの数で評価する
type HoleCountEvaluator struct{}

func (e *HoleCountEvaluator) Evaluate(b Board) int {
	count := 0
	for x := 0; x < b.width; x++ {
		covered := false
		for y := 0; y < b.height; y++ {
			if b.Get(x, y) {
				covered = true
			} else if covered {
				count++
			}
		}
	}
	return count
}

// MaxHeightEvaluator は最も高い列の高さで評価する
type MaxHeightEvaluator struct{}

func (e *MaxHeightEvaluator) Evaluate(b Board) int {
	maxHeight := 0
	for x := 0; x < b.width; x++ {
		if h := b.ColumnHeight(x); h > maxHeight {
			maxHeight = h
		}
	}
	return maxHeight
}

// TotalHeightEvaluator は列の高さの合計で評価する
type TotalHeightEvaluator struct{}

func (e *TotalHeightEvaluator) Evaluate(b Board) int {
	total := 0
	for x := 0; x < b.width; x++ {
		total += b.ColumnHeight(x)
	}
	return total
}

// BumpinessEvaluator は隣接する列の高さの差の絶対値の合計で評価する（空の列は高さ0）
type BumpinessEvaluator struct{}

func (e *BumpinessEvaluator) Evaluate(b Board) int {
	sum := 0
	for x := 1; x < b.width; x++ {
		d := b.ColumnHeight(x) - b.ColumnHeight(x-1)
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
