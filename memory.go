package nativeaddin

// Memory represents host-owned linear memory holding value cells and their
// string/blob payloads. Cells are read and written as little-endian u64
// words; payloads as raw bytes.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU64(offset uint32) (uint64, error)
	WriteU64(offset uint32, value uint64) error
}

// Allocator hands out host memory for output payloads. Ownership of an
// allocation passes to the host once it is referenced from an output cell;
// until then a failed write gives it back through Free.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
