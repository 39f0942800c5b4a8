package bot

import (
	"math"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// NoMove is returned when the board offers no valid column.
const NoMove = -1

const (
	terminalScore = 10000

	windowFourScore  = 100
	windowThreeScore = 10
	windowTwoScore   = 2

	// Blocking an opponent's open three outweighs building our own.
	blockThreePenalty = 80
	blockTwoPenalty   = 5

	centerColumnBonus = 3
)

// Engine picks columns for the automated opponent. It is stateless with
// respect to live sessions: every exploration happens on private clones of
// the snapshot it is handed.
type Engine struct {
	depth int
}

func New(depth int) *Engine {
	return &Engine{depth: depth}
}

// BestMove returns the column to play for botSlot. Immediate wins are taken
// and immediate opponent wins are blocked before any search; otherwise the
// move comes from depth-bounded minimax with alpha-beta pruning.
func (that *Engine) BestMove(board *entity.Board, botSlot, opponentSlot int) int {
	if len(board.ValidMoves()) == 0 {
		return NoMove
	}

	if column := findWinningMove(board, botSlot); column != NoMove {
		return column
	}

	if column := findWinningMove(board, opponentSlot); column != NoMove {
		return column
	}

	_, column := that.minimax(board, that.depth, true, math.MinInt32, math.MaxInt32, botSlot, opponentSlot)

	return column
}

// findWinningMove returns a column that wins the game for the slot in one
// move, or NoMove.
func findWinningMove(board *entity.Board, slot int) int {
	for _, column := range board.ValidMoves() {
		clone := board.Clone()

		result, err := clone.ApplyMove(column, slot)
		if err != nil {
			continue
		}

		if result.Status == entity.StatusWon && result.Winner == slot {
			return column
		}
	}

	return NoMove
}

func (that *Engine) minimax(board *entity.Board, depth int, maximizing bool, alpha, beta, botSlot, opponentSlot int) (int, int) {
	if depth == 0 || !board.IsActive() {
		return that.evaluate(board, botSlot, opponentSlot), NoMove
	}

	validMoves := board.ValidMoves()
	bestColumn := validMoves[0]

	if maximizing {
		maxScore := math.MinInt32

		for _, column := range validMoves {
			clone := board.Clone()
			_, _ = clone.ApplyMove(column, botSlot)

			score, _ := that.minimax(clone, depth-1, false, alpha, beta, botSlot, opponentSlot)
			if score > maxScore {
				maxScore = score
				bestColumn = column
			}

			if score > alpha {
				alpha = score
			}

			if beta <= alpha {
				break
			}
		}

		return maxScore, bestColumn
	}

	minScore := math.MaxInt32

	for _, column := range validMoves {
		clone := board.Clone()
		_, _ = clone.ApplyMove(column, opponentSlot)

		score, _ := that.minimax(clone, depth-1, true, alpha, beta, botSlot, opponentSlot)
		if score < minScore {
			minScore = score
			bestColumn = column
		}

		if score < beta {
			beta = score
		}

		if beta <= alpha {
			break
		}
	}

	return minScore, bestColumn
}

// evaluate scores a leaf position from the bot's point of view.
func (that *Engine) evaluate(board *entity.Board, botSlot, opponentSlot int) int {
	switch board.Status {
	case entity.StatusWon:
		if board.Winner == botSlot {
			return terminalScore
		}
		return -terminalScore
	case entity.StatusDraw:
		return 0
	}

	width := board.Config.Width
	height := board.Config.Height
	winLength := board.Config.WinLength

	score := 0

	for row := 0; row < height; row++ {
		for column := 0; column+winLength <= width; column++ {
			score += scoreWindow(board, row, column, 0, 1, botSlot, opponentSlot)
		}
	}

	for column := 0; column < width; column++ {
		for row := 0; row+winLength <= height; row++ {
			score += scoreWindow(board, row, column, 1, 0, botSlot, opponentSlot)
		}
	}

	for row := 0; row+winLength <= height; row++ {
		for column := 0; column+winLength <= width; column++ {
			score += scoreWindow(board, row, column, 1, 1, botSlot, opponentSlot)
		}
	}

	for row := winLength - 1; row < height; row++ {
		for column := 0; column+winLength <= width; column++ {
			score += scoreWindow(board, row, column, -1, 1, botSlot, opponentSlot)
		}
	}

	centerColumn := width / 2
	for row := 0; row < height; row++ {
		if board.Cells[row][centerColumn] == botSlot {
			score += centerColumnBonus
		}
	}

	return score
}

// scoreWindow scores one win-length window starting at (row, column) along
// the given direction. A window holding pieces of both players is dead and
// contributes nothing.
func scoreWindow(board *entity.Board, row, column, deltaRow, deltaColumn, botSlot, opponentSlot int) int {
	botCount, opponentCount, emptyCount := 0, 0, 0

	for i := 0; i < board.Config.WinLength; i++ {
		switch board.Cells[row+i*deltaRow][column+i*deltaColumn] {
		case botSlot:
			botCount++
		case opponentSlot:
			opponentCount++
		default:
			emptyCount++
		}
	}

	if botCount > 0 && opponentCount > 0 {
		return 0
	}

	winLength := board.Config.WinLength
	score := 0

	switch {
	case botCount == winLength:
		score += windowFourScore
	case botCount == winLength-1 && emptyCount == 1:
		score += windowThreeScore
	case botCount == winLength-2 && emptyCount == 2:
		score += windowTwoScore
	}

	switch {
	case opponentCount == winLength:
		score -= windowFourScore
	case opponentCount == winLength-1 && emptyCount == 1:
		score -= blockThreePenalty
	case opponentCount == winLength-2 && emptyCount == 2:
		score -= blockTwoPenalty
	}

	return score
}
