package enrich

import "sync"

// Budget tracks calls consumed against the code-host search API for one run.
// It is never persisted; each run starts from zero.
type Budget struct {
	mu    sync.Mutex
	used  int
	limit int
}

// NewBudget creates a budget with the given call ceiling.
func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Remaining returns how many calls may still be issued.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.used >= b.limit {
		return 0
	}
	return b.limit - b.used
}

// Consume records n calls as spent.
func (b *Budget) Consume(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used += n
}

// Used returns the total calls consumed so far.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Limit returns the ceiling this budget was created with.
func (b *Budget) Limit() int {
	return b.limit
}
