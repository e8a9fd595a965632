package domain

import "math"

// Candidate は1つの配置候補とその評価値
type Candidate struct {
	Command Command
	Score   int
}

// Solver は全ての回転・オフセットを試して最良の配置を探索する
type Solver struct {
	evaluator Evaluator
}

// NewSolver は新しいSolverを生成する
func NewSolver(evaluator Evaluator) *Solver {
	return &Solver{
		evaluator: evaluator,
	}
}

// BestMove は現在の状態から最良の配置を返す
// Iピースは回転0で最も深い列に落とす
// 同点の場合はオフセットが小さい方、次に回転が小さい方を選ぶ
// 候補がない場合は(0, 0)を返す
func (s *Solver) BestMove(snapshot Snapshot) Command {
	if snapshot.Piece.Type == PieceI {
		return Command{Offset: DeepestColumn(snapshot.Board), Rotation: 0}
	}

	best := Command{}
	bestScore := math.MinInt
	for rotation := 0; rotation < snapshot.Piece.Rotations(); rotation++ {
		c, ok := s.bestForRotation(snapshot.Board, snapshot.Piece, rotation)
		if ok && c.Score > bestScore {
			bestScore = c.Score
			best = c.Command
		}
	}
	return best
}

// bestForRotation は1つの回転について最良のオフセットを返す
func (s *Solver) bestForRotation(board Board, piece Piece, rotation int) (Candidate, bool) {
	best := Candidate{Score: math.MinInt}
	found := false
	for offset := 0; offset <= board.width-piece.Width(rotation); offset++ {
		score := s.scorePlacement(board, piece, rotation, offset)
		if score > best.Score {
			best = Candidate{Command: Command{Offset: offset, Rotation: rotation}, Score: score}
			found = true
		}
	}
	return best, found
}

func (s *Solver) scorePlacement(board Board, piece Piece, rotation, offset int) int {
	layout := piece.Layout(rotation, offset, board.width)
	return s.evaluator.Evaluate(SimulatePlacement(board, layout))
}

// Analyze は全ての配置候補を列挙順（回転→オフセット）で評価値付きで返す
func (s *Solver) Analyze(snapshot Snapshot) []Candidate {
	board, piece := snapshot.Board, snapshot.Piece
	candidates := make([]Candidate, 0, piece.Rotations()*board.width)
	for rotation := 0; rotation < piece.Rotations(); rotation++ {
		for offset := 0; offset <= board.width-piece.Width(rotation); offset++ {
			candidates = append(candidates, Candidate{
				Command: Command{Offset: offset, Rotation: rotation},
				Score:   s.scorePlacement(board, piece, rotation, offset),
			})
		}
	}
	return candidates
}

// DeepestColumn は最も深くまで空いている列を返す
// 右端から走査し、同じ深さの場合は先に見つかった（右側の）列を選ぶ
func DeepestColumn(board Board) int {
	deepest := 0
	maxDepth := math.MinInt
	for x := board.width - 1; x >= 0; x-- {
		// 空の列の深さはHeight
		depth := board.height - board.ColumnHeight(x)
		if depth > maxDepth {
			maxDepth = depth
			deepest = x
		}
	}
	return deepest
}
