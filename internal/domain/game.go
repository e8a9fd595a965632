package domain

import (
	"fmt"
	"math/rand"
)

// LinePoints は同時に消去した行数ごとの得点
var LinePoints = []int{0, 100, 300, 500, 800}

// Game は落ち物パズルのゲームの状態を管理する
type Game struct {
	board  Board
	piece  Piece
	score  int
	lines  int
	pieces int
	over   bool
	rng    *rand.Rand
}

// NewGame は新しいゲームを開始する
func NewGame(rng *rand.Rand, width, height int) *Game {
	g := &Game{
		board: NewBoard(width, height),
		rng:   rng,
	}
	g.spawnPiece()
	return g
}

// Board は現在の盤面を返す
func (g *Game) Board() Board {
	return g.board
}

// Piece は現在のピースを返す
func (g *Game) Piece() Piece {
	return g.piece
}

// Score は現在のスコアを返す
func (g *Game) Score() int {
	return g.score
}

// Lines は消去した行数の合計を返す
func (g *Game) Lines() int {
	return g.lines
}

// Pieces は置いたピースの数を返す
func (g *Game) Pieces() int {
	return g.pieces
}

// IsGameOver はゲームオーバーかどうかを返す
func (g *Game) IsGameOver() bool {
	return g.over
}

// Snapshot は判断用に現在の状態のコピーを返す
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Board: g.board.Copy(),
		Piece: g.piece,
		Score: g.score,
	}
}

// Apply はコマンドに従ってピースを落とし、揃った行を消して次のピースを出す
// ピースが最上段で既に衝突する場合や盤面の幅に収まらない場合はErrGameOverを返す
func (g *Game) Apply(cmd Command) error {
	if g.over {
		return ErrGameOver
	}
	// どの回転でも盤面に収まらないピースは置ける場所がない
	if len(g.piece.FittingRotations(g.board.width)) == 0 {
		g.over = true
		return ErrGameOver
	}
	if cmd.Rotation < 0 || cmd.Rotation >= g.piece.Rotations() ||
		cmd.Offset < 0 || cmd.Offset > g.board.width-g.piece.Width(cmd.Rotation) {
		return fmt.Errorf("%w: piece %s offset %d rotation %d", ErrInvalidCommand, g.piece, cmd.Offset, cmd.Rotation)
	}

	layout := g.piece.Layout(cmd.Rotation, cmd.Offset, g.board.width)
	landing := FindLanding(g.board, layout)
	if landing.Blocked {
		g.over = true
		return ErrGameOver
	}

	board, cleared := materialize(g.board, layout, landing.Shift).ClearFullRows()
	g.board = board
	g.lines += cleared
	g.score += linePoints(cleared)
	g.pieces++
	g.spawnPiece()
	return nil
}

func linePoints(cleared int) int {
	if cleared >= len(LinePoints) {
		return LinePoints[len(LinePoints)-1]
	}
	return LinePoints[cleared]
}

// spawnPiece は次のピースをランダムに選ぶ
func (g *Game) spawnPiece() {
	g.piece = NewPiece(PieceType(g.rng.Intn(NumPieceTypes)))
}
