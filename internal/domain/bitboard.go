package domain

import (
	"math/bits"
)

// MaxBitBoardWidth はBitBoardで扱える最大の幅
const MaxBitBoardWidth = 64

// BitBoard は盤面を行ごとのビットマスクで表現
// rows[y] のビットxが (x, y) の埋まりを表す
type BitBoard struct {
	width int
	rows  []uint64
}

// NewBitBoard は通常のBoardからBitBoardを生成
func NewBitBoard(b Board) BitBoard {
	bb := BitBoard{width: b.width, rows: make([]uint64, b.height)}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.Get(x, y) {
				bb.rows[y] |= 1 << uint(x)
			}
		}
	}
	return bb
}

// ToBoard はBitBoardを通常のBoardに変換
func (bb BitBoard) ToBoard() Board {
	b := NewBoard(bb.width, len(bb.rows))
	for y, row := range bb.rows {
		for x := 0; x < bb.width; x++ {
			if row>>uint(x)&1 != 0 {
				b.cells[CellIndex(x, y, bb.width)] = true
			}
		}
	}
	return b
}

// fullRow は全てのマスが埋まった行のビットマスク
func (bb BitBoard) fullRow() uint64 {
	if bb.width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(bb.width) - 1
}

// Metrics は評価に使う6つの指標
type Metrics struct {
	ClearedLines int
	ToppedOut    int
	Holes        int
	MaxHeight    int
	TotalHeight  int
	Bumpiness    int
}

// Metrics は全ての指標を上から1回の走査で計算
func (bb BitBoard) Metrics() Metrics {
	var m Metrics
	height := len(bb.rows)
	full := bb.fullRow()
	heights := make([]int, bb.width)

	var seen uint64 // これまでに埋まりマスが現れた列
	for y, row := range bb.rows {
		if row == full {
			m.ClearedLines++
		}
		if y < TopOutRows && row != 0 {
			m.ToppedOut = 1
		}
		// 上に埋まりマスがある空きマスが穴
		m.Holes += bits.OnesCount64(seen &^ row)

		// この行で初めて現れた列の高さを記録
		for fresh := row &^ seen; fresh != 0; fresh &= fresh - 1 {
			heights[bits.TrailingZeros64(fresh)] = height - y
		}
		seen |= row
	}

	for x, h := range heights {
		m.TotalHeight += h
		if h > m.MaxHeight {
			m.MaxHeight = h
		}
		if x > 0 {
			d := h - heights[x-1]
			if d < 0 {
				d = -d
			}
			m.Bumpiness += d
		}
	}
	return m
}

// Score は重みを掛けた合計を返す（HeuristicEvaluatorと同じ値）
func (m Metrics) Score(w Weights) int {
	return m.ClearedLines*w.ClearedLines -
		m.ToppedOut*ToppedOutPenalty -
		m.Holes*w.Holes -
		m.MaxHeight*MaxHeightWeight -
		m.TotalHeight*w.TotalHeight -
		m.Bumpiness*w.Bumpiness
}

// BitBoardEvaluator はBitBoardに変換して全指標をまとめて計算するEvaluator
// 幅がMaxBitBoardWidthを超える盤面には使えない
type BitBoardEvaluator struct {
	weights Weights
}

// NewBitBoardEvaluator は新しいBitBoardEvaluatorを生成する
func NewBitBoardEvaluator(w Weights) *BitBoardEvaluator {
	return &BitBoardEvaluator{weights: w}
}

func (e *BitBoardEvaluator) Evaluate(b Board) int {
	return NewBitBoard(b).Metrics().Score(e.weights)
}
