package resource

import (
	"sync"
)

// Table maps handles to values of type T.
type Table[T any] struct {
	backend   *localBackend[T]
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		backend: newLocalBackend[T](),
	}
}

// Insert adds a value and returns its handle.
func (t *Table[T]) Insert(class string, value T) (Handle, error) {
	handle, err := t.backend.create(class, value)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Class:  class,
		Value:  value,
	})
	return handle, nil
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(handle Handle) (T, bool) {
	v, _, ok := t.backend.get(handle)
	return v, ok
}

// Class returns the class name the handle was inserted with.
func (t *Table[T]) Class(handle Handle) (string, bool) {
	_, class, ok := t.backend.get(handle)
	return class, ok
}

// Borrow retrieves a value and pins it until ReturnBorrow.
func (t *Table[T]) Borrow(handle Handle) (T, bool) {
	return t.backend.borrow(handle)
}

// ReturnBorrow releases one borrow taken by Borrow.
func (t *Table[T]) ReturnBorrow(handle Handle) bool {
	return t.backend.returnBorrow(handle)
}

// Remove drops a value and returns it. It fails with ErrOutstandingBorrow
// while the handle is borrowed.
func (t *Table[T]) Remove(handle Handle) (T, error) {
	value, class, err := t.backend.drop(handle)
	if err != nil {
		return value, err
	}

	if d, ok := any(value).(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Class:  class,
		Value:  value,
	})
	return value, nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Len returns the number of live values.
func (t *Table[T]) Len() int {
	return t.backend.len()
}

// Each iterates over live values in handle order.
func (t *Table[T]) Each(fn func(Handle, string, T) bool) {
	t.backend.each(fn)
}

// Close drops every value and stops accepting inserts.
func (t *Table[T]) Close() error {
	for _, v := range t.backend.close() {
		if d, ok := any(v).(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
