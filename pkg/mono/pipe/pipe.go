package pipe

import "github.com/calder-lang/mono/pkg/mono"

type phase uint8

const (
	phaseIdle phase = iota
	phasePulling
	phaseExhausted
	phaseConsumed
)

// chainState is shared by every stage derived from one source. A chain is
// Idle until a terminal starts pulling, Exhausted once the source runs dry,
// and Consumed after the terminal finalizes; Consumed is terminal.
type chainState struct {
	phase phase
	pulls int
}

// Pipeline is a chain of lazy pull stages over elements of type T. Stages
// perform no work until a terminal reduction drives the chain, pulls are
// strictly sequential, and a chain is consumed by exactly one terminal.
//
// Stages applied to a consumed or failed chain carry the error forward;
// the next terminal surfaces it. Pipelines are not safe for concurrent use.
type Pipeline[T any] struct {
	next func() (T, bool)
	st   *chainState
	err  error
}

// From creates a pipeline over a fixed sequence of items.
func From[T any](items ...T) *Pipeline[T] {
	st := &chainState{}
	i := 0
	return &Pipeline[T]{
		st: st,
		next: func() (T, bool) {
			if i >= len(items) {
				var zero T
				return zero, false
			}
			v := items[i]
			i++
			st.pulls++
			return v, true
		},
	}
}

// FromFunc creates a pipeline pulling from a producer function until it
// signals exhaustion.
func FromFunc[T any](fn func() (T, bool)) *Pipeline[T] {
	st := &chainState{}
	return &Pipeline[T]{
		st: st,
		next: func() (T, bool) {
			v, ok := fn()
			if ok {
				st.pulls++
			}
			return v, ok
		},
	}
}

// Err returns the deferred error carried by the chain, if any. Terminals
// surface the same error.
func (p *Pipeline[T]) Err() error {
	return p.err
}

// Pulls returns how many items the source has produced so far. Laziness is
// observable: a terminal that needed n items leaves Pulls at n.
func (p *Pipeline[T]) Pulls() int {
	return p.st.pulls
}

// stageErr guards stage construction on a dead chain.
func (p *Pipeline[T]) stageErr() error {
	if p.err != nil {
		return p.err
	}
	if p.st.phase == phaseConsumed {
		return mono.ErrAlreadyConsumed
	}
	return nil
}

// begin moves the chain into Pulling on behalf of a terminal.
func (p *Pipeline[T]) begin() error {
	if p.err != nil {
		return p.err
	}
	if p.st.phase == phaseConsumed {
		return mono.ErrAlreadyConsumed
	}
	p.st.phase = phasePulling
	return nil
}

// exhaust marks the source dry; the terminal finalizes its accumulator next.
func (p *Pipeline[T]) exhaust() {
	p.st.phase = phaseExhausted
}

// finish retires the chain. Any later stage or terminal sees Consumed.
func (p *Pipeline[T]) finish() {
	p.st.phase = phaseConsumed
}
