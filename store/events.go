package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// ChangeKind is the kind of write that produced an Event.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// Event describes one committed write. Prior holds the entity as it was before
// the write (nil on create) and Current the entity after it (nil on delete).
// Both hold values of the catalog type named by Kind.
type Event struct {
	Kind    catalog.EntityKind
	ID      string
	Change  ChangeKind
	Prior   any
	Current any
}

// Products returns the prior and current product snapshots.
func (e Event) Products() (prior, current *catalog.Product) {
	if p, ok := e.Prior.(catalog.Product); ok {
		prior = &p
	}
	if p, ok := e.Current.(catalog.Product); ok {
		current = &p
	}
	return prior, current
}

// Link returns the product coupon pair of a link event.
func (e Event) Link() (catalog.ProductCoupon, bool) {
	for _, v := range []any{e.Current, e.Prior} {
		if l, ok := v.(catalog.ProductCoupon); ok {
			return l, true
		}
	}
	return catalog.ProductCoupon{}, false
}

// Listener consumes store events. Handlers run synchronously inside the write
// call and must not write to the store.
type Listener interface {
	HandleEvent(ctx context.Context, ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) HandleEvent(ctx context.Context, ev Event) { f(ctx, ev) }

// Dispatcher delivers events to subscribers in subscription order.
type Dispatcher struct {
	mu        sync.RWMutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id       int
	listener Listener
}

// Subscribe registers l and returns a function that removes it again.
func (d *Dispatcher) Subscribe(l Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, subscription{id: id, listener: l})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, s := range d.listeners {
			if s.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish hands every event, in order, to every listener before returning.
func (d *Dispatcher) Publish(ctx context.Context, events ...Event) {
	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	for i, s := range d.listeners {
		listeners[i] = s.listener
	}
	d.mu.RUnlock()

	for _, ev := range events {
		for _, l := range listeners {
			l.HandleEvent(ctx, ev)
		}
	}
}
