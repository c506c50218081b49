// Package board defines the occupancy grid reported by the sensor board and
// the mapping between grid coordinates and square names.
//
// Cells are stored row-major from rank 8 down to rank 1 and from file a to
// file h, so index = row*8 + col and (0,0) is a8 while (7,7) is h1.
package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// Size is the number of rows and columns on the board.
const Size = 8

// Cells is the number of cells in a snapshot.
const Cells = Size * Size

// Square is a (row, col) grid coordinate.
type Square struct {
	Row int
	Col int
}

// InBounds reports whether the square lies on the 8x8 grid.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// Index returns the snapshot index of the square. The square must be in bounds.
func (s Square) Index() int {
	return s.Row*Size + s.Col
}

// String returns the square name, or a (row,col) form for off-grid squares.
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return Notation(s.Row, s.Col)
}

// Notation returns the square name for a grid coordinate, e.g. (6,4) -> "e2".
// Row and col must be in [0,7].
func Notation(row, col int) string {
	return string(rune('a'+col)) + strconv.Itoa(Size-row)
}

// FromNotation parses a square name such as "e2" into its grid coordinate.
func FromNotation(name string) (row, col int, err error) {
	if len(name) != 2 {
		return 0, 0, fmt.Errorf("invalid square %q: %w", name, errors.ErrOutOfBounds)
	}
	file, rank := name[0], name[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, 0, fmt.Errorf("invalid square %q: %w", name, errors.ErrOutOfBounds)
	}
	return Size - int(rank-'0'), int(file - 'a'), nil
}

// ParseSquare parses a square name into a Square.
func ParseSquare(name string) (Square, error) {
	row, col, err := FromNotation(name)
	if err != nil {
		return Square{}, err
	}
	return Square{Row: row, Col: col}, nil
}

// Snapshot is one 64-cell occupancy sample. true means a piece is present.
// Snapshots are values: == compares every cell.
type Snapshot [Cells]bool

// Empty is the all-empty snapshot, which the move engine treats as a reset.
var Empty Snapshot

// ParseSnapshot decodes a raw record of exactly 64 '0'/'1' characters.
// Surrounding whitespace (including a trailing '\r') is ignored.
func ParseSnapshot(record string) (Snapshot, error) {
	var s Snapshot
	line := strings.TrimSpace(record)
	if len(line) != Cells {
		return s, errors.NewFramingError(line, fmt.Sprintf("record must be %d cells, got %d", Cells, len(line)))
	}
	for i := 0; i < Cells; i++ {
		switch line[i] {
		case '1':
			s[i] = true
		case '0':
		default:
			return Snapshot{}, errors.NewFramingError(line, fmt.Sprintf("invalid cell %q at offset %d", line[i], i))
		}
	}
	return s, nil
}

// String encodes the snapshot in its 64-character wire form.
func (s Snapshot) String() string {
	var b strings.Builder
	b.Grow(Cells)
	for _, occupied := range s {
		if occupied {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// At reports whether the given cell is occupied.
func (s Snapshot) At(row, col int) bool {
	return s[row*Size+col]
}

// Set returns a copy of s with the square's occupancy replaced.
func (s Snapshot) Set(sq Square, occupied bool) Snapshot {
	s[sq.Index()] = occupied
	return s
}

// IsEmpty reports whether no cell is occupied.
func (s Snapshot) IsEmpty() bool {
	return s == Empty
}

// Count returns the number of occupied cells.
func (s Snapshot) Count() int {
	n := 0
	for _, occupied := range s {
		if occupied {
			n++
		}
	}
	return n
}

// Occupied lists the occupied squares in index order.
func (s Snapshot) Occupied() []Square {
	var out []Square
	for i, occupied := range s {
		if occupied {
			out = append(out, Square{Row: i / Size, Col: i % Size})
		}
	}
	return out
}

// FromSquares builds a snapshot with exactly the given squares occupied.
func FromSquares(squares ...Square) Snapshot {
	var s Snapshot
	for _, sq := range squares {
		if sq.InBounds() {
			s[sq.Index()] = true
		}
	}
	return s
}

// StartingPosition returns the occupancy of a board set up for a new game:
// ranks 1, 2, 7 and 8 full.
func StartingPosition() Snapshot {
	var s Snapshot
	for _, row := range []int{0, 1, 6, 7} {
		for col := 0; col < Size; col++ {
			s[row*Size+col] = true
		}
	}
	return s
}

// Pack encodes the snapshot as one byte per row, most significant bit = file a.
func (s Snapshot) Pack() [Size]byte {
	var out [Size]byte
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if s[row*Size+col] {
				out[row] |= byte(1) << (Size - 1 - col)
			}
		}
	}
	return out
}

// Unpack decodes the one-byte-per-row form produced by Pack.
func Unpack(rows [Size]byte) Snapshot {
	var s Snapshot
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			s[row*Size+col] = rows[row]&(byte(1)<<(Size-1-col)) != 0
		}
	}
	return s
}
