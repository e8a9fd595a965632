package domain

import "fmt"

// PieceType はピースの種類を表す
type PieceType int

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// NumPieceTypes はピースの種類数
const NumPieceTypes = 7

// pieceShapes は各ピース・各回転のブロックの相対座標 {x, y}
// 座標は左上を(0, 0)に正規化している
var pieceShapes = [NumPieceTypes][][][2]int{
	PieceI: {
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, // 縦
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, // 横
	},
	PieceO: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	PieceT: {
		{{0, 0}, {1, 0}, {2, 0}, {1, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	PieceS: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	PieceZ: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	PieceJ: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {2, 0}, {2, 1}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	PieceL: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {0, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {1, 0}, {2, 0}, {0, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}

var pieceNames = [NumPieceTypes]string{"I", "O", "T", "S", "Z", "J", "L"}

// ParsePieceType は "I", "O" などの文字からPieceTypeを返す
func ParsePieceType(s string) (PieceType, error) {
	for i, name := range pieceNames {
		if name == s {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece %q", s)
}

// String はピースの名前を返す
func (t PieceType) String() string {
	if t < 0 || int(t) >= NumPieceTypes {
		return "?"
	}
	return pieceNames[t]
}

// Piece は落下させるピース（種類のみ、回転はCommandで指定する）
type Piece struct {
	Type PieceType
}

// NewPiece はPieceを生成する
func NewPiece(t PieceType) Piece {
	return Piece{Type: t}
}

// Rotations は回転の種類数を返す
func (p Piece) Rotations() int {
	return len(pieceShapes[p.Type])
}

// Cells は指定した回転のブロックの相対座標を返す
func (p Piece) Cells(rotation int) [][2]int {
	return pieceShapes[p.Type][rotation]
}

// Width は指定した回転での横幅を返す
func (p Piece) Width(rotation int) int {
	w := 0
	for _, c := range p.Cells(rotation) {
		if c[0]+1 > w {
			w = c[0] + 1
		}
	}
	return w
}

// Height は指定した回転での高さを返す
func (p Piece) Height(rotation int) int {
	h := 0
	for _, c := range p.Cells(rotation) {
		if c[1]+1 > h {
			h = c[1] + 1
		}
	}
	return h
}

// FittingRotations は幅boardWidthの盤面に収まる回転を小さい順に返す
func (p Piece) FittingRotations(boardWidth int) []int {
	var rotations []int
	for r := 0; r < p.Rotations(); r++ {
		if p.Width(r) <= boardWidth {
			rotations = append(rotations, r)
		}
	}
	return rotations
}

// Layout は落下前（最上段に置いた状態）で占有する盤面インデックスを返す
func (p Piece) Layout(rotation, offset, boardWidth int) []int {
	cells := p.Cells(rotation)
	layout := make([]int, len(cells))
	for i, c := range cells {
		layout[i] = CellIndex(c[0]+offset, c[1], boardWidth)
	}
	return layout
}

// String はピースの名前を返す
func (p Piece) String() string {
	return p.Type.String()
}
