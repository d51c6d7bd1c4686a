package protocol

import (
	"math/rand/v2"
	"sync"
)

// Allocator mints connection ids for outbound requests. Ids are uniformly
// random and may collide; tracking live ids belongs to the transport.
type Allocator struct {
	mu  sync.Mutex
	src rand.Source
}

// NewAllocator draws ids from src. A nil src uses the process-wide
// math/rand/v2 generator.
func NewAllocator(src rand.Source) *Allocator {
	return &Allocator{src: src}
}

// Next returns a fresh connection id. A nil *Allocator behaves like
// NewAllocator(nil).
func (a *Allocator) Next() uint16 {
	if a == nil || a.src == nil {
		return uint16(rand.Uint32())
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return uint16(a.src.Uint64())
}

// Assign turns a pending request into one ready for the wire.
func (a *Allocator) Assign(p PendingRequest) Request {
	return Request{ResourceID: p.ResourceID, ConnectionID: a.Next()}
}
