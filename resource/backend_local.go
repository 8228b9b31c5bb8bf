package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed            = errors.New("resource table closed")
	ErrOutstandingBorrow = errors.New("cannot drop resource with outstanding borrows")
	ErrExhausted         = errors.New("resource handles exhausted")
	ErrInvalidHandle     = errors.New("invalid resource handle")
)

// maxEntries keeps handles within the host's positive i32 range.
const maxEntries = 1<<31 - 1

// localBackend is an in-memory slot array with a free list and borrow
// tracking.
type localBackend[T any] struct {
	entries  []entry[T]
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry[T any] struct {
	value       T
	class       string
	borrowCount uint32
	valid       bool
}

func newLocalBackend[T any]() *localBackend[T] {
	return &localBackend[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]Handle, 0, 4),
	}
}

func (b *localBackend[T]) create(class string, value T) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry[T]{
		class: class,
		value: value,
		valid: true,
	}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	if len(b.entries) >= maxEntries {
		return 0, ErrExhausted
	}
	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// lookup returns the entry for handle. Callers hold b.mu.
func (b *localBackend[T]) lookup(handle Handle) *entry[T] {
	if handle == 0 || int(handle-1) >= len(b.entries) {
		return nil
	}
	e := &b.entries[handle-1]
	if !e.valid {
		return nil
	}
	return e
}

func (b *localBackend[T]) get(handle Handle) (T, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		var zero T
		return zero, "", false
	}
	return e.value, e.class, true
}

func (b *localBackend[T]) drop(handle Handle) (T, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	e := b.lookup(handle)
	if e == nil {
		return zero, "", ErrInvalidHandle
	}
	if e.borrowCount > 0 {
		return zero, "", ErrOutstandingBorrow
	}

	value, class := e.value, e.class
	*e = entry[T]{}
	b.freeList = append(b.freeList, handle)
	return value, class, nil
}

func (b *localBackend[T]) borrow(handle Handle) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		var zero T
		return zero, false
	}
	e.borrowCount++
	return e.value, true
}

func (b *localBackend[T]) returnBorrow(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil || e.borrowCount == 0 {
		return false
	}
	e.borrowCount--
	return true
}

func (b *localBackend[T]) close() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var live []T
	for i := range b.entries {
		if b.entries[i].valid {
			live = append(live, b.entries[i].value)
		}
	}
	b.entries = nil
	b.freeList = nil
	return live
}

func (b *localBackend[T]) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries) - len(b.freeList)
}

func (b *localBackend[T]) each(fn func(Handle, string, T) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(Handle(i+1), e.class, e.value) {
				break
			}
		}
	}
}
