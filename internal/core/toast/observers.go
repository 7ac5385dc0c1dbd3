package toast

import "sync"

type observer[T any] struct {
	id uint64
	fn func(T)
}

// observers is a registration list with an ordered outbox. Owners publish
// a value while holding their own lock, which fixes its position, then call
// flush after unlocking. Only one goroutine delivers at a time; a flush that
// finds delivery in progress leaves its values to that goroutine. Callbacks
// never run under a lock, so they may read the owner or subscribe and
// unsubscribe.
type observers[T any] struct {
	mu         sync.Mutex
	next       uint64
	list       []observer[T]
	pending    []T
	delivering bool
}

func (o *observers[T]) add(fn func(T)) func() {
	o.mu.Lock()
	o.next++
	id := o.next
	o.list = append(o.list, observer[T]{id: id, fn: fn})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *observers[T]) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, obs := range o.list {
		if obs.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

// publish appends v to the outbox.
func (o *observers[T]) publish(v T) {
	o.mu.Lock()
	o.pending = append(o.pending, v)
	o.mu.Unlock()
}

// flush delivers the outbox in publish order.
func (o *observers[T]) flush() {
	o.mu.Lock()
	if o.delivering {
		o.mu.Unlock()
		return
	}
	o.delivering = true

	for len(o.pending) > 0 {
		v := o.pending[0]
		var zero T
		o.pending[0] = zero
		o.pending = o.pending[1:]

		list := make([]observer[T], len(o.list))
		copy(list, o.list)
		o.mu.Unlock()

		for _, obs := range list {
			obs.fn(v)
		}

		o.mu.Lock()
	}

	o.delivering = false
	o.pending = nil
	o.mu.Unlock()
}

// notify publishes and flushes v. It is for owners with no lock of their own
// ordering the change.
func (o *observers[T]) notify(v T) {
	o.publish(v)
	o.flush()
}
