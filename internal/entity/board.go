package entity

import (
	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	StatusActive    = "active"
	StatusWon       = "won"
	StatusDraw      = "draw"
	StatusForfeited = "forfeited"

	EmptyCell = 0
	SlotOne   = 1
	SlotTwo   = 2
)

// lineDirections are the four directions a winning run can lie in:
// horizontal, vertical and both diagonals.
var lineDirections = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

type BoardConfig struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	WinLength int `json:"win_length"`
}

func DefaultBoardConfig() BoardConfig {
	return BoardConfig{Width: 7, Height: 6, WinLength: 4}
}

// Board is the state machine for one connect-four grid. Row 0 is the top
// row; pieces fall to the highest-index empty row of a column.
type Board struct {
	Config       BoardConfig `json:"config"`
	Cells        [][]int     `json:"cells"`
	Status       string      `json:"status"`
	Winner       int         `json:"winner,omitempty"`
	WinningCells [][2]int    `json:"winning_cells,omitempty"`
}

func NewBoard(config BoardConfig) *Board {
	cells := make([][]int, config.Height)
	for row := range cells {
		cells[row] = make([]int, config.Width)
	}

	return &Board{
		Config: config,
		Cells:  cells,
		Status: StatusActive,
	}
}

type MoveResult struct {
	Row          int      `json:"row"`
	Column       int      `json:"column"`
	Slot         int      `json:"slot"`
	Status       string   `json:"status"`
	Winner       int      `json:"winner,omitempty"`
	WinningCells [][2]int `json:"winning_cells,omitempty"`
}

// ApplyMove drops a piece for the given slot into the column. It rejects
// the move when the column is out of range, full, or the board is no
// longer active; turn order is the caller's concern.
func (that *Board) ApplyMove(column, slot int) (*MoveResult, error) {
	if column < 0 || column >= that.Config.Width {
		return nil, apperror.ErrInvalidColumn
	}

	if that.Status != StatusActive {
		return nil, apperror.ErrGameNotActive
	}

	if that.Cells[0][column] != EmptyCell {
		return nil, apperror.ErrColumnFull
	}

	row := -1
	for candidate := that.Config.Height - 1; candidate >= 0; candidate-- {
		if that.Cells[candidate][column] == EmptyCell {
			row = candidate
			break
		}
	}

	that.Cells[row][column] = slot

	if run := that.winningRun(row, column, slot); run != nil {
		that.Status = StatusWon
		that.Winner = slot
		that.WinningCells = run
	} else if that.isFull() {
		that.Status = StatusDraw
	}

	return &MoveResult{
		Row:          row,
		Column:       column,
		Slot:         slot,
		Status:       that.Status,
		Winner:       that.Winner,
		WinningCells: that.WinningCells,
	}, nil
}

// winningRun returns the full contiguous run through (row, column) when it
// reaches the configured win length, not just the triggering segment.
func (that *Board) winningRun(row, column, slot int) [][2]int {
	for _, direction := range lineDirections {
		run := [][2]int{{row, column}}

		currentRow, currentColumn := row+direction[0], column+direction[1]
		for that.inBounds(currentRow, currentColumn) && that.Cells[currentRow][currentColumn] == slot {
			run = append(run, [2]int{currentRow, currentColumn})
			currentRow += direction[0]
			currentColumn += direction[1]
		}

		currentRow, currentColumn = row-direction[0], column-direction[1]
		for that.inBounds(currentRow, currentColumn) && that.Cells[currentRow][currentColumn] == slot {
			run = append([][2]int{{currentRow, currentColumn}}, run...)
			currentRow -= direction[0]
			currentColumn -= direction[1]
		}

		if len(run) >= that.Config.WinLength {
			return run
		}
	}

	return nil
}

func (that *Board) inBounds(row, column int) bool {
	return row >= 0 && row < that.Config.Height && column >= 0 && column < that.Config.Width
}

func (that *Board) isFull() bool {
	for _, cell := range that.Cells[0] {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// ValidMoves returns the playable columns in ascending order; it is empty
// when the board is full or the game is no longer active.
func (that *Board) ValidMoves() []int {
	if that.Status != StatusActive {
		return nil
	}

	moves := make([]int, 0, that.Config.Width)
	for column := 0; column < that.Config.Width; column++ {
		if that.Cells[0][column] == EmptyCell {
			moves = append(moves, column)
		}
	}

	return moves
}

// Clone returns an independent deep copy for hypothetical exploration.
func (that *Board) Clone() *Board {
	cells := make([][]int, len(that.Cells))
	for row := range that.Cells {
		cells[row] = make([]int, len(that.Cells[row]))
		copy(cells[row], that.Cells[row])
	}

	winning := make([][2]int, len(that.WinningCells))
	copy(winning, that.WinningCells)

	return &Board{
		Config:       that.Config,
		Cells:        cells,
		Status:       that.Status,
		Winner:       that.Winner,
		WinningCells: winning,
	}
}

func (that *Board) IsActive() bool {
	return that.Status == StatusActive
}
