package emit

import "sync/atomic"

// once is a compute-then-publish cell. The first successful publish wins.
type once[T any] struct {
	p atomic.Pointer[T]
}

func (c *once[T]) load() *T {
	return c.p.Load()
}

// publish stores v if the cell is empty. It returns the published value and
// whether v won.
func (c *once[T]) publish(v *T) (*T, bool) {
	if c.p.CompareAndSwap(nil, v) {
		return v, true
	}
	return c.p.Load(), false
}
