package review

import (
	"context"
	"sync"
)

// MemoryPublisher collects items in memory for tests.
type MemoryPublisher struct {
	mu    sync.Mutex
	items []Item
}

// NewMemoryPublisher constructs an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, item Item) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, item)
	return nil
}

// Items returns a copy of everything published so far.
func (p *MemoryPublisher) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}
