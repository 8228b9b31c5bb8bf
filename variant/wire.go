package variant

import (
	"encoding/binary"
	"math"
	"time"

	nativeaddin "github.com/wippyai/native-addin"
	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/wide"
)

// Wire layout of a cell in host memory, three little-endian u64 words:
//
//	offset 0  u16  tag
//	offset 2  -    reserved, zero
//	offset 8  payload:
//	          BOOL   u8
//	          I4     i32
//	          R8     f64 bits
//	          TM     i64 unix seconds, then u32 nanoseconds at offset 16
//	          PSTR   u32 ptr, u32 length in bytes at offset 12
//	          PWSTR  u32 ptr, u32 length in code units at offset 12
//	          BLOB   u32 ptr, u32 length in bytes at offset 12
const (
	CellSize  = 24
	CellAlign = 8

	payloadOffset = 8
	lengthOffset  = 12
	nanosOffset   = 16

	// MaxPayload bounds string and blob payloads read from host memory.
	MaxPayload = 16 << 20
)

// ReadCell decodes the cell stored at addr. Payloads are copied out of host
// memory, so the result stays valid after the host reuses the buffer.
func ReadCell(mem nativeaddin.Memory, addr uint32) (Cell, error) {
	var words [3]uint64
	for i := range words {
		w, err := mem.ReadU64(addr + uint32(i)*8)
		if err != nil {
			return Cell{}, errors.OutOfBounds(errors.PhaseHost, nil, addr, CellSize)
		}
		words[i] = w
	}
	lo, hi := words[1], words[2]

	tag := Tag(uint16(words[0]))
	if !tag.Valid() {
		return Cell{}, errors.New(errors.PhaseHost, errors.KindTypeMismatch).
			Detail("unknown cell tag %d at 0x%x", tag, addr).
			Value(tag).
			Build()
	}

	switch tag {
	case TagEmpty:
		return Cell{}, nil
	case TagBool:
		return Bool(byte(lo) != 0), nil
	case TagI4:
		return Int32(int32(uint32(lo))), nil
	case TagR8:
		return Float64(math.Float64frombits(lo)), nil
	case TagDate:
		nsec := uint32(hi)
		if nsec >= uint32(time.Second) {
			return Cell{}, errors.InvalidData(errors.PhaseHost, nil, "date nanoseconds out of range")
		}
		return Date(time.Unix(int64(lo), int64(nsec)).UTC()), nil
	}

	ptr, n := uint32(lo), uint32(lo>>32)
	size := n
	if tag == TagPWSTR {
		size = n * 2
	}
	if n > MaxPayload {
		return Cell{}, errors.New(errors.PhaseHost, errors.KindInvalidData).
			Detail("payload length %d exceeds maximum %d", n, MaxPayload).
			Build()
	}
	if size == 0 {
		switch tag {
		case TagPWSTR:
			return Wide([]uint16{}), nil
		case TagPSTR:
			return NarrowBytes([]byte{}), nil
		default:
			return Blob([]byte{}), nil
		}
	}

	data, err := mem.Read(ptr, size)
	if err != nil {
		return Cell{}, errors.OutOfBounds(errors.PhaseHost, nil, ptr, size)
	}

	switch tag {
	case TagPWSTR:
		units := make([]uint16, n)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(data[2*i:])
		}
		return Wide(units), nil
	case TagPSTR:
		return NarrowBytes(append([]byte(nil), data...)), nil
	default:
		return Blob(append([]byte(nil), data...)), nil
	}
}

// ReadCells decodes n consecutive cells starting at addr.
func ReadCells(mem nativeaddin.Memory, addr uint32, n int) ([]Cell, error) {
	cells := make([]Cell, n)
	for i := range cells {
		c, err := ReadCell(mem, addr+uint32(i)*CellSize)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}
	return cells, nil
}

// WriteCell encodes c at addr. String and blob payloads are copied into
// memory obtained from alloc; the host owns them afterwards. A payload is
// freed again when the cell itself cannot be written.
func WriteCell(mem nativeaddin.Memory, alloc nativeaddin.Allocator, addr uint32, c *Cell) error {
	var lo, hi uint64
	var data []byte
	var align uint32

	switch c.tag {
	case TagEmpty:
	case TagBool:
		lo = c.num & 1
	case TagI4:
		lo = uint64(uint32(c.num))
	case TagR8:
		lo = c.num
	case TagDate:
		lo = uint64(c.date.Unix())
		hi = uint64(uint32(c.date.Nanosecond()))
	case TagPWSTR:
		data, align = wide.AppendBytesLE(nil, c.wide), 2
		lo = uint64(len(c.wide)) << 32
	case TagPSTR, TagBlob:
		data, align = c.bytes, 1
		lo = uint64(len(c.bytes)) << 32
	default:
		return errors.InvalidData(errors.PhaseHost, nil, "cannot encode cell tag "+c.tag.String())
	}

	ptr, err := writePayload(mem, alloc, data, align)
	if err != nil {
		return err
	}
	lo |= uint64(ptr)

	for i, w := range [3]uint64{uint64(c.tag), lo, hi} {
		if err := mem.WriteU64(addr+uint32(i)*8, w); err != nil {
			if ptr != 0 {
				alloc.Free(ptr, uint32(len(data)), align)
			}
			return errors.OutOfBounds(errors.PhaseHost, nil, addr, CellSize)
		}
	}
	return nil
}

func writePayload(mem nativeaddin.Memory, alloc nativeaddin.Allocator, data []byte, align uint32) (uint32, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if len(data) > MaxPayload*2 {
		return 0, errors.New(errors.PhaseHost, errors.KindInvalidData).
			Detail("payload size %d exceeds maximum", len(data)).
			Build()
	}
	if alloc == nil {
		return 0, errors.InvalidInput(errors.PhaseHost, "no allocator for cell payload")
	}
	size := uint32(len(data))
	ptr, err := alloc.Alloc(size, align)
	if err != nil {
		e := errors.AllocationFailed(errors.PhaseHost, size, align)
		e.Cause = err
		return 0, e
	}
	if err := mem.Write(ptr, data); err != nil {
		alloc.Free(ptr, size, align)
		return 0, errors.OutOfBounds(errors.PhaseHost, nil, ptr, size)
	}
	return ptr, nil
}
