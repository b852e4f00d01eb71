package state

import (
	"sync"
)

// Observable holds one value and publishes every replacement to subscribers.
// Values are replaced whole; readers never see a partial update.
type Observable[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   map[int]chan T
	nextID int
}

// NewObservable creates an observable holding initial
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial, subs: make(map[int]chan T)}
}

// Get returns the current value
func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Update computes the next value from the current one under the lock,
// stores it and publishes it. It returns the stored value.
func (o *Observable[T]) Update(fn func(T) T) T {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.value = fn(o.value)
	for _, ch := range o.subs {
		publish(ch, o.value)
	}
	return o.value
}

// Subscribe returns a channel that receives the latest value after each
// replacement. Slow readers only see the newest value. Call cancel to
// stop receiving; the channel is closed.
func (o *Observable[T]) Subscribe() (<-chan T, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	ch := make(chan T, 1)
	o.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			close(ch)
			o.mu.Unlock()
		})
	}
	return ch, cancel
}

// publish drops any unread value so the channel holds only the newest one
func publish[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default: // Non-blocking if channel full
	}
}
