package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

func TestBoard_ApplyMove(t *testing.T) {
	t.Run("Pieces fall to the lowest empty row", func(t *testing.T) {
		// Given: an empty default board
		board := NewBoard(DefaultBoardConfig())

		// When: two pieces are dropped into the same column
		first, err := board.ApplyMove(3, SlotOne)
		require.NoError(t, err)

		second, err := board.ApplyMove(3, SlotTwo)
		require.NoError(t, err)

		// Then: they stack bottom-up
		assert.Equal(t, 5, first.Row)
		assert.Equal(t, 4, second.Row)
		assert.Equal(t, SlotOne, board.Cells[5][3])
		assert.Equal(t, SlotTwo, board.Cells[4][3])
	})

	t.Run("Gravity invariant holds for any move sequence", func(t *testing.T) {
		// Given: a board filled by an arbitrary alternating sequence
		board := NewBoard(DefaultBoardConfig())
		columns := []int{0, 3, 3, 6, 2, 3, 1, 1, 4, 5, 2, 0}

		slot := SlotOne
		for _, column := range columns {
			_, err := board.ApplyMove(column, slot)
			require.NoError(t, err)

			if slot == SlotOne {
				slot = SlotTwo
			} else {
				slot = SlotOne
			}
		}

		// Then: no occupied cell sits above an empty one in the same column
		for column := 0; column < board.Config.Width; column++ {
			for row := 0; row < board.Config.Height-1; row++ {
				if board.Cells[row][column] != EmptyCell {
					assert.NotEqual(t, EmptyCell, board.Cells[row+1][column],
						"occupied cell above empty cell in column %d", column)
				}
			}
		}
	})

	t.Run("Rejects a column out of range", func(t *testing.T) {
		board := NewBoard(DefaultBoardConfig())

		_, err := board.ApplyMove(7, SlotOne)
		assert.ErrorIs(t, err, apperror.ErrInvalidColumn)

		_, err = board.ApplyMove(-1, SlotOne)
		assert.ErrorIs(t, err, apperror.ErrInvalidColumn)
	})

	t.Run("Rejects a full column", func(t *testing.T) {
		// Given: column 0 filled to the top
		board := NewBoard(DefaultBoardConfig())
		for i := 0; i < board.Config.Height; i++ {
			slot := SlotOne
			if i%2 == 1 {
				slot = SlotTwo
			}

			_, err := board.ApplyMove(0, slot)
			require.NoError(t, err)
		}

		// When: another piece is dropped into it
		_, err := board.ApplyMove(0, SlotOne)

		// Then: the move is rejected and the column is no longer valid
		assert.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.NotContains(t, board.ValidMoves(), 0)
	})

	t.Run("Rejects moves once the game is over", func(t *testing.T) {
		board := NewBoard(DefaultBoardConfig())
		board.Status = StatusWon

		_, err := board.ApplyMove(3, SlotOne)
		assert.ErrorIs(t, err, apperror.ErrGameNotActive)
	})

	t.Run("Detects a horizontal win and records the full run", func(t *testing.T) {
		// Given: three slot-one pieces in a row on the bottom
		board := NewBoard(DefaultBoardConfig())
		for _, column := range []int{0, 1, 2} {
			_, err := board.ApplyMove(column, SlotOne)
			require.NoError(t, err)
		}

		// When: the completing piece lands
		result, err := board.ApplyMove(3, SlotOne)
		require.NoError(t, err)

		// Then: the game is won and the connected run is recorded
		assert.Equal(t, StatusWon, result.Status)
		assert.Equal(t, SlotOne, result.Winner)
		assert.Len(t, result.WinningCells, 4)
		assert.Contains(t, result.WinningCells, [2]int{5, 0})
		assert.Contains(t, result.WinningCells, [2]int{5, 3})
	})

	t.Run("Records a run longer than the win length in full", func(t *testing.T) {
		// Given: slot-one pieces at columns 0,1 and 3,4 on the bottom row
		board := NewBoard(DefaultBoardConfig())
		for _, column := range []int{0, 1, 3, 4} {
			_, err := board.ApplyMove(column, SlotOne)
			require.NoError(t, err)
		}

		// When: the gap is filled
		result, err := board.ApplyMove(2, SlotOne)
		require.NoError(t, err)

		// Then: all five connected cells are winning cells
		assert.Equal(t, StatusWon, result.Status)
		assert.Len(t, result.WinningCells, 5)
	})

	t.Run("Detects a vertical win", func(t *testing.T) {
		board := NewBoard(DefaultBoardConfig())
		for i := 0; i < 3; i++ {
			_, err := board.ApplyMove(2, SlotTwo)
			require.NoError(t, err)
		}

		result, err := board.ApplyMove(2, SlotTwo)
		require.NoError(t, err)

		assert.Equal(t, StatusWon, result.Status)
		assert.Equal(t, SlotTwo, result.Winner)
		assert.Len(t, result.WinningCells, 4)
	})

	t.Run("Detects a diagonal win", func(t *testing.T) {
		// Given: a staircase so slot one holds a down-right diagonal
		board := NewBoard(DefaultBoardConfig())
		moves := []struct {
			column int
			slot   int
		}{
			{0, SlotOne},
			{1, SlotTwo}, {1, SlotOne},
			{2, SlotTwo}, {2, SlotTwo}, {2, SlotOne},
			{3, SlotTwo}, {3, SlotTwo}, {3, SlotTwo},
		}
		for _, move := range moves {
			_, err := board.ApplyMove(move.column, move.slot)
			require.NoError(t, err)
		}

		// When: slot one tops off column 3
		result, err := board.ApplyMove(3, SlotOne)
		require.NoError(t, err)

		// Then: the diagonal is a win
		assert.Equal(t, StatusWon, result.Status)
		assert.Equal(t, SlotOne, result.Winner)
	})

	t.Run("Full board without a winner is a draw", func(t *testing.T) {
		// Given: a 4x4 board filled in a pattern with no four-in-a-row
		board := NewBoard(BoardConfig{Width: 4, Height: 4, WinLength: 4})
		pattern := [][]int{
			{SlotOne, SlotTwo, SlotOne, SlotTwo},
			{SlotOne, SlotTwo, SlotOne, SlotTwo},
			{SlotTwo, SlotOne, SlotTwo, SlotOne},
			{SlotTwo, SlotOne, SlotTwo, SlotOne},
		}

		var result *MoveResult
		for row := len(pattern) - 1; row >= 0; row-- {
			for column := 0; column < 4; column++ {
				var err error
				result, err = board.ApplyMove(column, pattern[row][column])
				require.NoError(t, err)
			}
		}

		// Then: the final move yields a draw
		assert.Equal(t, StatusDraw, result.Status)
		assert.Equal(t, 0, result.Winner)
		assert.Empty(t, board.ValidMoves())
	})
}

func TestBoard_ValidMoves(t *testing.T) {
	t.Run("Returns all columns ascending on an empty board", func(t *testing.T) {
		board := NewBoard(DefaultBoardConfig())

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, board.ValidMoves())
	})

	t.Run("Returns nothing when the game is not active", func(t *testing.T) {
		board := NewBoard(DefaultBoardConfig())
		board.Status = StatusDraw

		assert.Empty(t, board.ValidMoves())
	})
}

func TestBoard_Clone(t *testing.T) {
	t.Run("Clone is independent of the original", func(t *testing.T) {
		// Given: a board with a piece in it
		board := NewBoard(DefaultBoardConfig())
		_, err := board.ApplyMove(3, SlotOne)
		require.NoError(t, err)

		// When: a clone is mutated
		clone := board.Clone()
		_, err = clone.ApplyMove(3, SlotTwo)
		require.NoError(t, err)

		// Then: the original is untouched
		assert.Equal(t, EmptyCell, board.Cells[4][3])
		assert.Equal(t, SlotTwo, clone.Cells[4][3])
	})
}
