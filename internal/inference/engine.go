// Package inference turns the difference between two stable board states
// into a move.
//
// The engine only looks at occupancy, so it recognizes moves by the shape of
// the diff between the baseline and the new state:
//
//	1 vacated                 piece lifted, wait for placement
//	1 arrived (after a lift)  placement of the lifted piece
//	1 vacated + 1 arrived     simple move
//	2 vacated + 1 arrived     capture with the victim beside the mover
//	2 vacated + 2 arrived     castling, by the set of columns touched
//
// Anything else is reported as an unrecognized pattern. Legality is never
// checked.
package inference

import (
	"time"

	"github.com/Iron-Ham/chessbridge/internal/board"
	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// DefaultLiftTimeout is how long a lifted piece may stay off the board
// before the lift is forgotten.
const DefaultLiftTimeout = 2 * time.Second

// LiftTransition names a change in the pending-lift lifecycle.
type LiftTransition string

const (
	LiftRecorded LiftTransition = "recorded"
	LiftResolved LiftTransition = "resolved"
	LiftExpired  LiftTransition = "expired"
	LiftReset    LiftTransition = "reset"
)

// LiftHook observes pending-lift transitions.
type LiftHook func(transition LiftTransition, lift PendingLift)

var (
	kingsideColumns  = [board.Size]bool{4: true, 5: true, 6: true, 7: true}
	queensideColumns = [board.Size]bool{0: true, 2: true, 3: true, 4: true}
)

// Engine classifies stable board changes. It holds no session state of its
// own; everything mutable lives in the State passed to Classify.
type Engine struct {
	liftTimeout time.Duration
	now         func() time.Time
	hook        LiftHook
}

// Option configures an Engine.
type Option func(*Engine)

// WithLiftTimeout sets how long a pending lift stays valid.
func WithLiftTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.liftTimeout = d
		}
	}
}

// WithClock replaces time.Now, for tests and replays.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLiftHook registers an observer for pending-lift transitions.
func WithLiftHook(hook LiftHook) Option {
	return func(e *Engine) {
		e.hook = hook
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		liftTimeout: DefaultLiftTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LiftTimeout returns the configured lift timeout.
func (e *Engine) LiftTimeout() time.Duration {
	return e.liftTimeout
}

// Classify compares next against the session baseline and returns the move it
// represents, a *errors.DiagnosticError, or neither.
//
// An expired pending lift is dropped before the baseline is chosen, so a
// change after the deadline is judged against the pre-lift state.
// PreviousStable is never modified here; the caller advances it when it
// accepts the returned move.
func (e *Engine) Classify(st *State, next board.Snapshot) (Move, error) {
	e.expireLift(st)

	if next.IsEmpty() {
		e.clearLift(st, LiftReset)
		return Move{}, nil
	}

	baseline, ok := st.Baseline()
	if !ok {
		return Move{}, nil
	}

	changes := Diff(baseline, next)
	switch len(changes) {
	case 0:
		return Move{}, nil
	case 1:
		return e.classifySingle(st, next, changes[0])
	case 2:
		return e.classifyDirect(st, changes)
	case 3:
		return e.classifyCapture(st, changes)
	case 4:
		return e.classifyCastle(st, changes)
	default:
		return Move{}, errors.NewPatternUnrecognized(len(changes))
	}
}

// classifySingle handles a one-cell change: either a lift or the placement
// that completes one.
func (e *Engine) classifySingle(st *State, next board.Snapshot, c Change) (Move, error) {
	switch {
	case c.Vacated():
		lift := PendingLift{
			State:    next,
			Square:   c.Square,
			Deadline: e.now().Add(e.liftTimeout),
		}
		st.PendingLift = &lift
		e.notify(LiftRecorded, lift)
		return Move{}, nil

	case c.Arrived() && st.PendingLift != nil && st.PreviousStable != nil:
		to := c.Square
		before := *st.PreviousStable
		from, ok := liftSource(before, st.PendingLift.State, to)
		if !ok {
			return Move{}, errors.NewPatternUnrecognized(1)
		}
		if err := Validate(from, to); err != nil {
			return Move{}, err
		}
		kind := MoveSimple
		if before.At(to.Row, to.Col) {
			// The destination was occupied before the lift: its piece was
			// removed while the mover was in the air.
			kind = MoveCapture
		}
		return e.accept(st, Move{Kind: kind, From: from, To: to}), nil
	}
	return Move{}, errors.NewPatternUnrecognized(1)
}

// liftSource finds the square the lifted piece came from: a cell empty in the
// lift state that was occupied before it. When two such cells exist and one
// of them is the destination (a captured piece was also removed), the other
// one is the source.
func liftSource(before, lifted board.Snapshot, to board.Square) (board.Square, bool) {
	var candidates []board.Square
	for i := range before {
		if before[i] && !lifted[i] {
			candidates = append(candidates, board.Square{Row: i / board.Size, Col: i % board.Size})
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0], true
	case 2:
		if candidates[0] == to {
			return candidates[1], true
		}
		if candidates[1] == to {
			return candidates[0], true
		}
	}
	return board.Square{}, false
}

// classifyDirect handles one vacated and one arrived cell in either order.
func (e *Engine) classifyDirect(st *State, changes []Change) (Move, error) {
	vacated, arrived := partition(changes)
	if len(vacated) != 1 || len(arrived) != 1 {
		return Move{}, errors.NewPatternUnrecognized(len(changes))
	}
	from, to := vacated[0], arrived[0]
	if err := Validate(from, to); err != nil {
		return Move{}, err
	}
	return e.accept(st, Move{Kind: MoveSimple, From: from, To: to}), nil
}

// classifyCapture handles two vacated cells and one arrived cell. The source
// is the vacated cell whose partner sits on the same row and on the
// destination's column; any other layout is left unrecognized.
func (e *Engine) classifyCapture(st *State, changes []Change) (Move, error) {
	vacated, arrived := partition(changes)
	if len(vacated) != 2 || len(arrived) != 1 {
		return Move{}, errors.NewPatternUnrecognized(len(changes))
	}
	to := arrived[0]

	var candidates []board.Square
	for i, sq := range vacated {
		other := vacated[1-i]
		if other.Row == sq.Row && other.Col == to.Col {
			candidates = append(candidates, sq)
		}
	}
	if len(candidates) != 1 {
		return Move{}, errors.NewPatternUnrecognized(len(changes))
	}

	from := candidates[0]
	if err := Validate(from, to); err != nil {
		return Move{}, err
	}
	return e.accept(st, Move{Kind: MoveCapture, From: from, To: to}), nil
}

// classifyCastle matches two vacated and two arrived cells by the columns
// they cover. Rows and piece identity are not checked.
func (e *Engine) classifyCastle(st *State, changes []Change) (Move, error) {
	vacated, arrived := partition(changes)
	if len(vacated) != 2 || len(arrived) != 2 {
		return Move{}, errors.NewPatternUnrecognized(len(changes))
	}

	var cols [board.Size]bool
	for _, c := range changes {
		cols[c.Square.Col] = true
	}

	switch cols {
	case kingsideColumns:
		return e.accept(st, Move{Kind: MoveCastleKingside}), nil
	case queensideColumns:
		return e.accept(st, Move{Kind: MoveCastleQueenside}), nil
	}
	return Move{}, errors.NewPatternUnrecognized(len(changes))
}

// accept clears the pending lift for an emitted move.
func (e *Engine) accept(st *State, m Move) Move {
	e.clearLift(st, LiftResolved)
	return m
}

// expireLift drops a pending lift whose deadline has passed.
func (e *Engine) expireLift(st *State) {
	if st.PendingLift != nil && st.PendingLift.Expired(e.now()) {
		e.clearLift(st, LiftExpired)
	}
}

func (e *Engine) clearLift(st *State, transition LiftTransition) {
	if st.PendingLift == nil {
		return
	}
	lift := *st.PendingLift
	st.PendingLift = nil
	e.notify(transition, lift)
}

func (e *Engine) notify(transition LiftTransition, lift PendingLift) {
	if e.hook != nil {
		e.hook(transition, lift)
	}
}
