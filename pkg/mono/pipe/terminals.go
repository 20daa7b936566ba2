package pipe

import "golang.org/x/exp/constraints"

// Number constrains the Sum terminal to types with a meaningful +.
type Number interface {
	constraints.Integer | constraints.Float
}

// Collect accumulates every remaining item into a slice, consuming the
// chain.
func (p *Pipeline[T]) Collect() ([]T, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	defer p.finish()

	out := []T{}
	for {
		v, ok := p.next()
		if !ok {
			p.exhaust()
			return out, nil
		}
		out = append(out, v)
	}
}

// CollectSet accumulates into a set, deduplicating items. A free function
// because the comparable constraint is stronger than the pipeline's.
func CollectSet[T comparable](p *Pipeline[T]) (map[T]struct{}, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	defer p.finish()

	out := make(map[T]struct{})
	for {
		v, ok := p.next()
		if !ok {
			p.exhaust()
			return out, nil
		}
		out[v] = struct{}{}
	}
}

// Fold applies a binary combiner left-to-right over the chain, starting
// from seed, in a single pass. An empty chain returns the seed unchanged.
func Fold[T, A any](p *Pipeline[T], seed A, f func(A, T) A) (A, error) {
	if err := p.begin(); err != nil {
		var zero A
		return zero, err
	}
	defer p.finish()

	acc := seed
	for {
		v, ok := p.next()
		if !ok {
			p.exhaust()
			return acc, nil
		}
		acc = f(acc, v)
	}
}

// Sum is Fold with a fixed + combiner and a zero seed.
func Sum[T Number](p *Pipeline[T]) (T, error) {
	var zero T
	return Fold(p, zero, func(acc, v T) T { return acc + v })
}

// Count consumes the chain and returns how many items it produced.
func (p *Pipeline[T]) Count() (int, error) {
	if err := p.begin(); err != nil {
		return 0, err
	}
	defer p.finish()

	n := 0
	for {
		_, ok := p.next()
		if !ok {
			p.exhaust()
			return n, nil
		}
		n++
	}
}

// Max returns the largest item. An empty chain is a valid input, reported
// as an explicit no-value result, not an error.
func Max[T constraints.Ordered](p *Pipeline[T]) (T, bool, error) {
	return extremum(p, func(candidate, best T) bool { return candidate > best })
}

// Min returns the smallest item, with the same empty-chain contract as Max.
func Min[T constraints.Ordered](p *Pipeline[T]) (T, bool, error) {
	return extremum(p, func(candidate, best T) bool { return candidate < best })
}

func extremum[T constraints.Ordered](p *Pipeline[T], better func(candidate, best T) bool) (T, bool, error) {
	if err := p.begin(); err != nil {
		var zero T
		return zero, false, err
	}
	defer p.finish()

	var best T
	found := false
	for {
		v, ok := p.next()
		if !ok {
			p.exhaust()
			return best, found, nil
		}
		if !found || better(v, best) {
			best = v
			found = true
		}
	}
}

// ForEach runs f for its side effects on every item, in pull order,
// discarding the produced values.
func (p *Pipeline[T]) ForEach(f func(T)) error {
	if err := p.begin(); err != nil {
		return err
	}
	defer p.finish()

	for {
		v, ok := p.next()
		if !ok {
			p.exhaust()
			return nil
		}
		f(v)
	}
}

// Any reports whether some item satisfies pred, stopping pulls at the first
// satisfying item.
func (p *Pipeline[T]) Any(pred func(T) bool) (bool, error) {
	if err := p.begin(); err != nil {
		return false, err
	}
	defer p.finish()

	for {
		v, ok := p.next()
		if !ok {
			p.exhaust()
			return false, nil
		}
		if pred(v) {
			return true, nil
		}
	}
}

// All reports whether every item satisfies pred, stopping pulls at the
// first falsifying item. An empty chain satisfies All.
func (p *Pipeline[T]) All(pred func(T) bool) (bool, error) {
	if err := p.begin(); err != nil {
		return false, err
	}
	defer p.finish()

	for {
		v, ok := p.next()
		if !ok {
			p.exhaust()
			return true, nil
		}
		if !pred(v) {
			return false, nil
		}
	}
}
