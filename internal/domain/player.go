package domain

import "math/rand"

// Player は1手ごとに配置を決めるプレイヤー
type Player interface {
	// Init はゲーム開始前に1回呼ばれる
	Init()
	Step(snapshot Snapshot) (Command, error)
}

// MoveSelector は状態から配置を選ぶ（Solver, ParallelSolver）
type MoveSelector interface {
	BestMove(snapshot Snapshot) Command
}

// HeuristicPlayer は評価関数で最良の配置を選ぶプレイヤー
// 状態を持たないため複数のゲームで共有できる
type HeuristicPlayer struct {
	selector MoveSelector
}

// NewHeuristicPlayer は指定した重みで評価するプレイヤーを生成する
func NewHeuristicPlayer(w Weights) *HeuristicPlayer {
	return NewHeuristicPlayerWithSelector(NewSolver(NewHeuristicEvaluator(w)))
}

// NewHeuristicPlayerWithSelector は任意のMoveSelectorを使うプレイヤーを生成する
func NewHeuristicPlayerWithSelector(selector MoveSelector) *HeuristicPlayer {
	return &HeuristicPlayer{selector: selector}
}

func (p *HeuristicPlayer) Init() {}

func (p *HeuristicPlayer) Step(snapshot Snapshot) (Command, error) {
	return p.selector.BestMove(snapshot), nil
}

// RandomPlayer はランダムな配置を選ぶプレイヤー
// rngを持つため並列のゲーム間で共有しないこと
type RandomPlayer struct {
	rng *rand.Rand
}

// NewRandomPlayer は新しいRandomPlayerを生成する
func NewRandomPlayer(rng *rand.Rand) *RandomPlayer {
	return &RandomPlayer{rng: rng}
}

func (p *RandomPlayer) Init() {}

// Step は盤面に収まる回転だけから選ぶ。収まる回転がなければ(0, 0)を返す
func (p *RandomPlayer) Step(snapshot Snapshot) (Command, error) {
	rotations := snapshot.Piece.FittingRotations(snapshot.Board.Width())
	if len(rotations) == 0 {
		return Command{}, nil
	}
	rotation := rotations[p.rng.Intn(len(rotations))]
	offset := p.rng.Intn(snapshot.Board.Width() - snapshot.Piece.Width(rotation) + 1)
	return Command{Offset: offset, Rotation: rotation}, nil
}
