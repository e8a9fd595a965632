package domain

import "strings"

// 標準の盤面サイズ
const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Board は落ち物パズルの盤面を表す（幅W×高さH、y=0が最上段）
// 値として扱い、変更系のメソッドは新しいBoardを返す
type Board struct {
	width  int
	height int
	cells  []bool
}

// NewBoard は空のBoardを生成する
func NewBoard(width, height int) Board {
	return Board{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// NewBoardFromRows は文字列の行（'#'=埋まり、それ以外=空）からBoardを生成する
// 行の長さは全て同じである必要がある
func NewBoardFromRows(rows []string) Board {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	b := NewBoard(width, height)
	for y, row := range rows {
		for x := 0; x < width && x < len(row); x++ {
			if row[x] == '#' {
				b.cells[CellIndex(x, y, width)] = true
			}
		}
	}
	return b
}

// CellIndex は(x, y)座標を一次元インデックスに変換する
// ピースのレイアウトと盤面はこの変換を共有する
func CellIndex(x, y, width int) int {
	return x + y*width
}

// CellPos は一次元インデックスを(x, y)座標に変換する
func CellPos(index, width int) (int, int) {
	return index % width, index / width
}

// Width は盤面の幅を返す
func (b Board) Width() int {
	return b.width
}

// Height は盤面の高さを返す
func (b Board) Height() int {
	return b.height
}

// Get は指定した位置が埋まっているかを返す
func (b Board) Get(x, y int) bool {
	return b.cells[CellIndex(x, y, b.width)]
}

// Set は指定した位置を設定した新しいBoardを返す
func (b Board) Set(x, y int, filled bool) Board {
	newBoard := b.Copy()
	newBoard.cells[CellIndex(x, y, b.width)] = filled
	return newBoard
}

// Copy はBoardのコピーを返す
func (b Board) Copy() Board {
	cells := make([]bool, len(b.cells))
	copy(cells, b.cells)
	return Board{width: b.width, height: b.height, cells: cells}
}

// Equal は2つのBoardが同じ盤面かどうかを返す
func (b Board) Equal(other Board) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// FilledCount は埋まっているマスの数を返す
func (b Board) FilledCount() int {
	count := 0
	for _, c := range b.cells {
		if c {
			count++
		}
	}
	return count
}

// ColumnHeight は列の高さ（H - 最上段の埋まりマスのy）を返す
// 空の列は0
func (b Board) ColumnHeight(x int) int {
	for y := 0; y < b.height; y++ {
		if b.Get(x, y) {
			return b.height - y
		}
	}
	return 0
}

// ClearFullRows は揃った行を消去して上の行を落とした新しいBoardと消去した行数を返す
func (b Board) ClearFullRows() (Board, int) {
	result := NewBoard(b.width, b.height)
	cleared := 0
	dest := b.height - 1

	// 下の行から順に、揃っていない行だけをコピーする
	for y := b.height - 1; y >= 0; y-- {
		if b.rowFull(y) {
			cleared++
			continue
		}
		for x := 0; x < b.width; x++ {
			result.cells[CellIndex(x, dest, b.width)] = b.Get(x, y)
		}
		dest--
	}
	return result, cleared
}

func (b Board) rowFull(y int) bool {
	for x := 0; x < b.width; x++ {
		if !b.Get(x, y) {
			return false
		}
	}
	return true
}

// String は盤面の文字列表現を返す
func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		sb.WriteString("|")
		for x := 0; x < b.width; x++ {
			if b.Get(x, y) {
				sb.WriteString("[]")
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("--", b.width) + "+\n")
	return sb.String()
}
