package game

import (
	"fmt"
	"strings"
)

// Board is a 3x3 board stored row-major: index = row*3 + col.
// It is a value type, assigning or passing a Board copies it.
type Board [Cells]Marker

// Index converts a row and column to a cell index, -1 if out of range.
func Index(row, col int) int {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return -1
	}
	return row*Size + col
}

// HasWon reports whether any win line is fully occupied by player.
func HasWon(b Board, player Marker) bool {
	if !player.IsPlayer() {
		return false
	}
	for _, line := range WinLines {
		if b[line[0]] == player && b[line[1]] == player && b[line[2]] == player {
			return true
		}
	}
	return false
}

// IsFull reports whether no cell is empty.
func IsFull(b Board) bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// IsTerminal reports whether either player has won or the board is full.
func IsTerminal(b Board) bool {
	return HasWon(b, PlayerX) || HasWon(b, PlayerO) || IsFull(b)
}

// Available returns the empty cell indices in ascending order.
func (b Board) Available() []int {
	moves := make([]int, 0, Cells)
	for i, cell := range b {
		if cell == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

func (b Board) Count(player Marker) int {
	n := 0
	for _, cell := range b {
		if cell == player {
			n++
		}
	}
	return n
}

// Winner returns the winning marker or Empty if nobody has won.
func (b Board) Winner() Marker {
	switch {
	case HasWon(b, PlayerX):
		return PlayerX
	case HasWon(b, PlayerO):
		return PlayerO
	default:
		return Empty
	}
}

func (b Board) Status() Status {
	if b.Winner() != Empty {
		return Won
	}
	if IsFull(b) {
		return Draw
	}
	return InProgress
}

// Play returns a copy of the board with player's marker on index.
func (b Board) Play(index int, player Marker) (Board, error) {
	if !player.IsPlayer() {
		return b, fmt.Errorf("%w: %v", ErrInvalidMarker, player)
	}
	if index < 0 || index >= Cells {
		return b, fmt.Errorf("%w: index %d out of range", ErrInvalidMove, index)
	}
	if b[index] != Empty {
		return b, fmt.Errorf("%w: cell %d is taken by %v", ErrInvalidMove, index, b[index])
	}
	b[index] = player
	return b, nil
}

// String returns the compact 9 character form, e.g. "XO.X.O...".
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(Cells)
	for _, cell := range b {
		sb.WriteString(cell.String())
	}
	return sb.String()
}

// Grid renders the board as three rows separated by newlines.
func (b Board) Grid() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b[row*Size+col].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the compact form. Empty cells may be written as '.', '-', '_' or ' '.
func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != Cells {
		return b, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, Cells, len(s))
	}
	for i, c := range s {
		switch c {
		case 'X', 'x':
			b[i] = PlayerX
		case 'O', 'o':
			b[i] = PlayerO
		case '.', '-', '_', ' ':
			b[i] = Empty
		default:
			return b, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidBoard, c, i)
		}
	}
	return b, nil
}

func (b Board) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Board) UnmarshalText(text []byte) error {
	parsed, err := ParseBoard(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
