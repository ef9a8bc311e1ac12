package game

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the side length of the board, Cells the number of cells.
const (
	Size  = 3
	Cells = Size * Size
)

var (
	ErrInvalidMove   = errors.New("invalid move")
	ErrInvalidMarker = errors.New("invalid marker")
	ErrInvalidBoard  = errors.New("invalid board")
)

// Marker identifies the owner of a cell. The zero value is an empty cell.
type Marker uint8

const (
	Empty Marker = iota
	PlayerX
	PlayerO
)

func (m Marker) String() string {
	switch m {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "."
	}
}

// Opponent returns the other player's marker, Empty for Empty.
func (m Marker) Opponent() Marker {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

// IsPlayer reports whether m is one of the two player markers.
func (m Marker) IsPlayer() bool {
	return m == PlayerX || m == PlayerO
}

func ParseMarker(s string) (Marker, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidMarker, s)
	}
}

func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Marker) UnmarshalText(text []byte) error {
	if s := strings.TrimSpace(string(text)); s == "" || s == "." {
		*m = Empty
		return nil
	}
	parsed, err := ParseMarker(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Status is the state of a single game: InProgress until it is Won or a Draw.
type Status int

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, status := range []Status{InProgress, Won, Draw} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// WinLines holds the 8 index triples that win the game: 3 rows, 3 columns and 2 diagonals.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}
