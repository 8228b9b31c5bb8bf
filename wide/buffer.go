package wide

import (
	"encoding/binary"
	"sync"
)

// InlineCap is the number of code units a Buffer stores without allocating.
const InlineCap = 64

const (
	poolMaxCap  = 1 << 16 // max pooled code units
	poolInitCap = 256
)

var unitPool = sync.Pool{
	New: func() any {
		buf := make([]uint16, 0, poolInitCap)
		return &buf
	},
}

func getUnits() *[]uint16 {
	return unitPool.Get().(*[]uint16)
}

func putUnits(buf *[]uint16) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	unitPool.Put(buf)
}

// Buffer is scratch space for one wide string. The zero value is ready to
// use. Slices returned by its methods alias the buffer and are valid until the
// next call or Release.
type Buffer struct {
	inline [InlineCap]uint16
	heap   *[]uint16
}

// Encode encodes s into the buffer.
func (b *Buffer) Encode(s string) []uint16 {
	n := EncodedLen(s)
	return AppendEncode(b.units(n), s)
}

// FromBytesLE reinterprets little-endian bytes as code units. A trailing odd
// byte is ignored.
func (b *Buffer) FromBytesLE(p []byte) []uint16 {
	n := len(p) / 2
	dst := b.units(n)[:n]
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint16(p[2*i:])
	}
	return dst
}

// Release returns any pooled storage. The buffer stays usable.
func (b *Buffer) Release() {
	if b.heap != nil {
		putUnits(b.heap)
		b.heap = nil
	}
}

func (b *Buffer) units(n int) []uint16 {
	if n <= InlineCap {
		return b.inline[:0]
	}
	if b.heap == nil {
		b.heap = getUnits()
	}
	if cap(*b.heap) < n {
		*b.heap = make([]uint16, 0, n)
	}
	return (*b.heap)[:0]
}

// AppendBytesLE appends units to dst as little-endian bytes.
func AppendBytesLE(dst []byte, units []uint16) []byte {
	for _, u := range units {
		dst = binary.LittleEndian.AppendUint16(dst, u)
	}
	return dst
}
