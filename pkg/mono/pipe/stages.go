package pipe

// Filter keeps items satisfying pred. A pure pull adapter: each downstream
// request pulls upstream until a match or exhaustion, with no lookahead.
func (p *Pipeline[T]) Filter(pred func(T) bool) *Pipeline[T] {
	if err := p.stageErr(); err != nil {
		return &Pipeline[T]{st: p.st, err: err}
	}
	return &Pipeline[T]{
		st: p.st,
		next: func() (T, bool) {
			for {
				v, ok := p.next()
				if !ok {
					var zero T
					return zero, false
				}
				if pred(v) {
					return v, true
				}
			}
		},
	}
}

// Take passes through at most n items, then reports exhaustion without
// pulling further upstream.
func (p *Pipeline[T]) Take(n int) *Pipeline[T] {
	if err := p.stageErr(); err != nil {
		return &Pipeline[T]{st: p.st, err: err}
	}
	remaining := n
	return &Pipeline[T]{
		st: p.st,
		next: func() (T, bool) {
			if remaining <= 0 {
				var zero T
				return zero, false
			}
			v, ok := p.next()
			if !ok {
				var zero T
				return zero, false
			}
			remaining--
			return v, true
		},
	}
}

// Map transforms each item. A free function because Go methods cannot
// introduce the output type parameter.
func Map[In, Out any](p *Pipeline[In], f func(In) Out) *Pipeline[Out] {
	if err := p.stageErr(); err != nil {
		return &Pipeline[Out]{st: p.st, err: err}
	}
	return &Pipeline[Out]{
		st: p.st,
		next: func() (Out, bool) {
			v, ok := p.next()
			if !ok {
				var zero Out
				return zero, false
			}
			return f(v), true
		},
	}
}

// FlatMap expands each item into zero or more outputs. This is a buffering
// stage: it may hold the unconsumed remainder of one upstream item's
// expansion, and a single downstream request may pull several upstream
// items when expansions are empty.
func FlatMap[In, Out any](p *Pipeline[In], f func(In) []Out) *Pipeline[Out] {
	if err := p.stageErr(); err != nil {
		return &Pipeline[Out]{st: p.st, err: err}
	}
	var buf []Out
	return &Pipeline[Out]{
		st: p.st,
		next: func() (Out, bool) {
			for len(buf) == 0 {
				v, ok := p.next()
				if !ok {
					var zero Out
					return zero, false
				}
				buf = f(v)
			}
			out := buf[0]
			buf = buf[1:]
			return out, true
		},
	}
}
