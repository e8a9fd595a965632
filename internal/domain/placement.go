package domain

// Landing はレイアウトを落下させた結果の位置を表す
type Landing struct {
	Shift   int  // レイアウトを下にずらした行数
	Blocked bool // 最上段の時点で既に衝突している
}

// FindLanding はレイアウトが衝突する最小のずらし量hを探し、h-1を着地位置とする
// h=0で既に衝突している場合はShift=0, Blocked=trueを返す
func FindLanding(board Board, layout []int) Landing {
	// h=Height では全てのセルが盤面外になるため必ず衝突する
	for h := 0; h <= board.height; h++ {
		if collides(board, layout, h) {
			if h == 0 {
				return Landing{Shift: 0, Blocked: true}
			}
			return Landing{Shift: h - 1}
		}
	}
	return Landing{}
}

func collides(board Board, layout []int, shift int) bool {
	for _, index := range layout {
		x, y := CellPos(index, board.width)
		y += shift
		if y >= board.height || board.Get(x, y) {
			return true
		}
	}
	return false
}

// SimulatePlacement はレイアウトを落下させた後の新しい盤面を返す
// 元の盤面は変更しない。最上段で衝突する場合も重ねて配置する（トップアウト判定用）
func SimulatePlacement(board Board, layout []int) Board {
	landing := FindLanding(board, layout)
	return materialize(board, layout, landing.Shift)
}

func materialize(board Board, layout []int, shift int) Board {
	newBoard := board.Copy()
	for _, index := range layout {
		x, y := CellPos(index, board.width)
		y += shift
		if y < board.height {
			newBoard.cells[CellIndex(x, y, board.width)] = true
		}
	}
	return newBoard
}
