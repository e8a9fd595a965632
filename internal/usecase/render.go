package usecase

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
)

// Renderer は1手ごとに選ばれた配置を表示する
type Renderer interface {
	Render(cmd domain.Command, snapshot domain.Snapshot)
}

// NopRenderer は何も表示しない（並列実行や探索で使う）
type NopRenderer struct{}

func (NopRenderer) Render(domain.Command, domain.Snapshot) {}

// TextRenderer は配置後の盤面をテキストで表示する
type TextRenderer struct {
	w     io.Writer
	delay time.Duration
}

// NewTextRenderer は新しいTextRendererを生成する
func NewTextRenderer(w io.Writer, delay time.Duration) *TextRenderer {
	return &TextRenderer{w: w, delay: delay}
}

// Render は置いたピースを "()" で強調して盤面を表示する
func (r *TextRenderer) Render(cmd domain.Command, snapshot domain.Snapshot) {
	fmt.Fprint(r.w, RenderPlacement(cmd, snapshot))
	fmt.Fprintf(r.w, "Piece: %s, Offset: %d, Rotation: %d, Score: %d\n\n",
		snapshot.Piece, cmd.Offset, cmd.Rotation, snapshot.Score)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
}

// RenderPlacement は配置を重ねた盤面の文字列を返す
func RenderPlacement(cmd domain.Command, snapshot domain.Snapshot) string {
	board := snapshot.Board
	placed := make(map[int]bool)
	piece := snapshot.Piece
	if cmd.Rotation >= 0 && cmd.Rotation < piece.Rotations() &&
		cmd.Offset >= 0 && cmd.Offset <= board.Width()-piece.Width(cmd.Rotation) {
		layout := piece.Layout(cmd.Rotation, cmd.Offset, board.Width())
		landing := domain.FindLanding(board, layout)
		for _, index := range layout {
			x, y := domain.CellPos(index, board.Width())
			placed[domain.CellIndex(x, y+landing.Shift, board.Width())] = true
		}
	}

	var sb strings.Builder
	for y := 0; y < board.Height(); y++ {
		sb.WriteString("|")
		for x := 0; x < board.Width(); x++ {
			switch {
			case placed[domain.CellIndex(x, y, board.Width())]:
				sb.WriteString("()")
			case board.Get(x, y):
				sb.WriteString("[]")
			default:
				sb.WriteString(" .")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("--", board.Width()) + "+\n")
	return sb.String()
}
