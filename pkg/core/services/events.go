package services

import (
	"log"
	"sync"

	"github.com/warinb/linkgrove/pkg/core/domain"
)

// EventBus delivers store events to subscribers synchronously, after the
// mutation that produced them has committed. A panicking listener is logged
// and skipped so it can never block or reorder the mutation itself.
type EventBus struct {
	mu             sync.Mutex
	nextID         int
	profileCreated map[int]func(domain.ProfileCreated)
	linkAdded      map[int]func(domain.LinkAdded)
	linkDeleted    map[int]func(domain.LinkDeleted)
}

func NewEventBus() *EventBus {
	return &EventBus{
		profileCreated: make(map[int]func(domain.ProfileCreated)),
		linkAdded:      make(map[int]func(domain.LinkAdded)),
		linkDeleted:    make(map[int]func(domain.LinkDeleted)),
	}
}

// OnProfileCreated registers a listener and returns its unsubscribe func.
// Unsubscribing twice is a no-op and never affects other listeners.
func (b *EventBus) OnProfileCreated(fn func(domain.ProfileCreated)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.profileCreated[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.profileCreated, id)
	}
}

func (b *EventBus) OnLinkAdded(fn func(domain.LinkAdded)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.linkAdded[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.linkAdded, id)
	}
}

func (b *EventBus) OnLinkDeleted(fn func(domain.LinkDeleted)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.linkDeleted[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.linkDeleted, id)
	}
}

func (b *EventBus) emitProfileCreated(ev domain.ProfileCreated) {
	if b == nil {
		return
	}
	b.mu.Lock()
	fns := make([]func(domain.ProfileCreated), 0, len(b.profileCreated))
	for _, fn := range b.profileCreated {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		safeCall(func() { fn(ev) })
	}
}

func (b *EventBus) emitLinkAdded(ev domain.LinkAdded) {
	if b == nil {
		return
	}
	b.mu.Lock()
	fns := make([]func(domain.LinkAdded), 0, len(b.linkAdded))
	for _, fn := range b.linkAdded {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		safeCall(func() { fn(ev) })
	}
}

func (b *EventBus) emitLinkDeleted(ev domain.LinkDeleted) {
	if b == nil {
		return
	}
	b.mu.Lock()
	fns := make([]func(domain.LinkDeleted), 0, len(b.linkDeleted))
	for _, fn := range b.linkDeleted {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		safeCall(func() { fn(ev) })
	}
}

func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event listener panic: %v", r)
		}
	}()
	fn()
}
