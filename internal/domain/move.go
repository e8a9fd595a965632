package domain

import "errors"

var (
	// ErrGameOver は次のピースを置く場所がなくゲームが終了したことを表す
	ErrGameOver = errors.New("game over")
	// ErrInvalidCommand は回転やオフセットが範囲外のコマンドを表す
	ErrInvalidCommand = errors.New("invalid command")
	// ErrQuit はプレイヤーが途中でやめたことを表す
	ErrQuit = errors.New("player quit")
)

// Command はピースの配置（横オフセットと回転）を表す
type Command struct {
	Offset   int
	Rotation int
}

// Snapshot は1回の判断のための盤面・ピース・スコアの読み取り専用コピー
type Snapshot struct {
	Board Board
	Piece Piece
	Score int
}
