// Package memory provides guest memory adapters for wazero.
package memory

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	nativeaddin "github.com/wippyai/native-addin"
)

// WrapMemory wraps a wazero api.Memory to implement nativeaddin.Memory.
func WrapMemory(mem api.Memory) nativeaddin.Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator wraps the guest's allocation export to implement
// nativeaddin.Allocator. free may be nil when the guest exports no
// deallocation function.
func WrapAllocator(ctx context.Context, alloc, free api.Function) nativeaddin.Allocator {
	if alloc == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Fn: alloc, FreeFn: free}
}

// Wrapper adapts wazero api.Memory to nativeaddin.Memory.
type Wrapper struct {
	Mem api.Memory
}

// Read reads bytes from memory. The result aliases guest memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

// ReadU64 reads a little-endian u64.
func (m *Wrapper) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// WriteU64 writes a little-endian u64.
func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

// AllocatorWrapper adapts a guest export `(size i32) -> (ptr i32)` to
// nativeaddin.Allocator, with an optional `(ptr, size, align i32)` export to
// give back allocations the host could not hand over.
type AllocatorWrapper struct {
	Ctx    context.Context
	Fn     api.Function
	FreeFn api.Function
}

// Alloc requests size bytes from the guest and checks the alignment of the
// returned pointer.
func (a *AllocatorWrapper) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("allocation failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("allocation returned no result")
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("allocation of %d bytes returned null", size)
	}
	if align > 1 && ptr%align != 0 {
		return 0, fmt.Errorf("allocation returned misaligned pointer 0x%x (align %d)", ptr, align)
	}
	return ptr, nil
}

// Free returns an allocation to the guest. Without a free export the memory
// stays with the guest allocator.
func (a *AllocatorWrapper) Free(ptr, size, align uint32) {
	if a.FreeFn == nil {
		return
	}
	_, _ = a.FreeFn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align))
}
