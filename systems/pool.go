package systems

// Pool is a fixed-capacity store of records split into a dense live set and
// a free stack. Records are allocated once at construction; acquiring and
// removing only move pointers between the two sets, so live+free always
// equals the capacity.
type Pool[T any] struct {
	records []T
	live    []*T
	free    []*T
}

// NewPool allocates capacity records, all initially free.
func NewPool[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		panic("systems: negative pool capacity")
	}
	p := &Pool[T]{
		records: make([]T, capacity),
		live:    make([]*T, 0, capacity),
		free:    make([]*T, 0, capacity),
	}
	// Push in reverse so the first acquire hands out records[0].
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, &p.records[i])
	}
	return p
}

// Capacity returns the fixed number of records.
func (p *Pool[T]) Capacity() int {
	return len(p.records)
}

// LiveCount returns the number of live records.
func (p *Pool[T]) LiveCount() int {
	return len(p.live)
}

// FreeCount returns the number of reusable records.
func (p *Pool[T]) FreeCount() int {
	return len(p.free)
}

// Get returns the live record at dense index i.
// It panics if i is outside [0, LiveCount).
func (p *Pool[T]) Get(i int) *T {
	return p.live[i]
}

// Live returns the live set. The slice is owned by the pool and is
// reordered by RemoveAt; callers must not retain or modify it.
func (p *Pool[T]) Live() []*T {
	return p.live
}

// TryAcquire moves a free record to the end of the live set and returns it
// for the caller to initialize. Its fields hold whatever the previous
// occupant left. When the pool is exhausted it returns false and nothing
// changes.
func (p *Pool[T]) TryAcquire() (*T, bool) {
	n := len(p.free)
	if n == 0 {
		return nil, false
	}
	rec := p.free[n-1]
	p.free = p.free[:n-1]
	p.live = append(p.live, rec)
	return rec, true
}

// RemoveAt returns the live record at index i to the free set. The last live
// record is swapped into slot i, so a caller iterating forward must revisit i.
// It returns false if i is out of range.
func (p *Pool[T]) RemoveAt(i int) bool {
	n := len(p.live)
	if i < 0 || i >= n {
		return false
	}
	rec := p.live[i]
	p.live[i] = p.live[n-1]
	p.live[n-1] = nil
	p.live = p.live[:n-1]
	p.free = append(p.free, rec)
	return true
}

// Clear returns every live record to the free set.
func (p *Pool[T]) Clear() {
	for i := len(p.live) - 1; i >= 0; i-- {
		p.free = append(p.free, p.live[i])
		p.live[i] = nil
	}
	p.live = p.live[:0]
}
