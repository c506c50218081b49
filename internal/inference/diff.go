package inference

import "github.com/Iron-Ham/chessbridge/internal/board"

// Change is one cell that differs between two snapshots.
type Change struct {
	Square board.Square
	Was    bool
	Now    bool
}

// Vacated reports an occupied -> empty transition.
func (c Change) Vacated() bool {
	return c.Was && !c.Now
}

// Arrived reports an empty -> occupied transition.
func (c Change) Arrived() bool {
	return !c.Was && c.Now
}

// Diff lists the cells where from and to disagree, in row-major order.
func Diff(from, to board.Snapshot) []Change {
	var changes []Change
	for i := range from {
		if from[i] != to[i] {
			changes = append(changes, Change{
				Square: board.Square{Row: i / board.Size, Col: i % board.Size},
				Was:    from[i],
				Now:    to[i],
			})
		}
	}
	return changes
}

// partition splits changes into vacated and arrived squares.
func partition(changes []Change) (vacated, arrived []board.Square) {
	for _, c := range changes {
		switch {
		case c.Vacated():
			vacated = append(vacated, c.Square)
		case c.Arrived():
			arrived = append(arrived, c.Square)
		}
	}
	return vacated, arrived
}
