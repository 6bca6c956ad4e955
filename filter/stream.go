package filter

import "iter"

// Apply filters a paginated sequence lazily. Errors from the source are
// passed through; an evaluation error is yielded once and ends the sequence.
// A nil filter passes every item.
func Apply[T any](seq iter.Seq2[T, error], f CompiledFilter, record func(*T) Record) iter.Seq2[T, error] {
	if f == nil {
		return seq
	}
	return func(yield func(T, error) bool) {
		for item, err := range seq {
			if err != nil {
				yield(item, err)
				return
			}
			ok, err := f.Match(record(&item))
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if ok && !yield(item, nil) {
				return
			}
		}
	}
}
