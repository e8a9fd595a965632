package domain

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// ParallelSolver は回転ごとに並列で評価するソルバー
// 結果はSolverと同じ（同点時の選び方も同じ）
type ParallelSolver struct {
	solver *Solver
}

// NewParallelSolver は新しいParallelSolverを生成する
func NewParallelSolver(evaluator Evaluator) *ParallelSolver {
	return &ParallelSolver{
		solver: NewSolver(evaluator),
	}
}

// BestMove は現在の状態から最良の配置を返す（回転単位で並列化）
func (s *ParallelSolver) BestMove(snapshot Snapshot) Command {
	if snapshot.Piece.Type == PieceI {
		return Command{Offset: DeepestColumn(snapshot.Board), Rotation: 0}
	}

	type result struct {
		candidate Candidate
		ok        bool
	}

	rotations := snapshot.Piece.Rotations()
	// 1回転しかない場合は並列化不要
	if rotations == 1 {
		return s.solver.BestMove(snapshot)
	}

	results := make([]result, rotations)
	var g errgroup.Group
	for rotation := 0; rotation < rotations; rotation++ {
		rotation := rotation
		g.Go(func() error {
			c, ok := s.solver.bestForRotation(snapshot.Board, snapshot.Piece, rotation)
			results[rotation] = result{candidate: c, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	// 回転の小さい順に集約して同点時の選び方をSolverと揃える
	best := Command{}
	bestScore := math.MinInt
	for _, r := range results {
		if r.ok && r.candidate.Score > bestScore {
			bestScore = r.candidate.Score
			best = r.candidate.Command
		}
	}
	return best
}
