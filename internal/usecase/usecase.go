package usecase

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/nnaakkaaii/alphatetris/internal/domain"
)

// InteractivePlayer は入力から "offset rotation" を読み取るプレイヤー
type InteractivePlayer struct {
	reader *bufio.Reader
	w      io.Writer
}

// NewInteractivePlayer は新しいInteractivePlayerを生成する
func NewInteractivePlayer(r io.Reader, w io.Writer) *InteractivePlayer {
	return &InteractivePlayer{reader: bufio.NewReader(r), w: w}
}

func (p *InteractivePlayer) Init() {
	fmt.Fprintln(p.w, "=== Tetris ===")
	fmt.Fprintln(p.w, "Controls: <offset> <rotation> to drop, q=Quit")
	fmt.Fprintln(p.w)
}

// Step は有効なコマンドが入力されるまで繰り返し入力を求める
// 入力の終端またはqでErrQuitを返す
func (p *InteractivePlayer) Step(snapshot domain.Snapshot) (domain.Command, error) {
	for {
		fmt.Fprint(p.w, snapshot.Board)
		fmt.Fprintf(p.w, "Score: %d\n", snapshot.Score)
		fmt.Fprintf(p.w, "Piece: %s (rotations: %d)\n", snapshot.Piece, snapshot.Piece.Rotations())
		fmt.Fprint(p.w, "Move: ")

		input, err := p.reader.ReadString('\n')
		if err != nil && input == "" {
			return domain.Command{}, domain.ErrQuit
		}

		input = strings.TrimSpace(strings.ToLower(input))
		if input == "q" {
			fmt.Fprintln(p.w, "Quit.")
			return domain.Command{}, domain.ErrQuit
		}

		cmd, ok := parseCommand(input, snapshot)
		if !ok {
			fmt.Fprintln(p.w, "Invalid input. Use \"<offset> <rotation>\" or q to quit.")
			fmt.Fprintln(p.w)
			if err != nil {
				return domain.Command{}, domain.ErrQuit
			}
			continue
		}
		fmt.Fprintln(p.w)
		return cmd, nil
	}
}

func parseCommand(input string, snapshot domain.Snapshot) (domain.Command, bool) {
	parts := strings.Fields(input)
	if len(parts) != 2 {
		return domain.Command{}, false
	}
	offset, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.Command{}, false
	}
	rotation, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.Command{}, false
	}

	piece := snapshot.Piece
	if rotation < 0 || rotation >= piece.Rotations() {
		return domain.Command{}, false
	}
	if offset < 0 || offset > snapshot.Board.Width()-piece.Width(rotation) {
		return domain.Command{}, false
	}
	return domain.Command{Offset: offset, Rotation: rotation}, true
}

// PlayGame はCLIでゲームを実行する
func PlayGame(r io.Reader, w io.Writer, rng *rand.Rand, width, height int) (GameResult, error) {
	game := domain.NewGame(rng, width, height)
	player := NewInteractivePlayer(r, w)

	res, err := RunGame(player, NopRenderer{}, game, DefaultSteps)
	if err != nil {
		return res, err
	}

	fmt.Fprint(w, game.Board())
	if game.IsGameOver() {
		fmt.Fprintln(w, "Game Over!")
	}
	fmt.Fprintf(w, "Final Score: %d\n", res.Score)
	return res, nil
}
