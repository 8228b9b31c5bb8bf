package variant

import (
	"fmt"
	"math"
	"time"

	"github.com/wippyai/native-addin/errors"
)

// Cell is a tagged value exchanged with the host.
//
// Input cells are borrowed for the duration of a call: payload slices may
// alias host memory and must not be retained. Output cells own their payload
// once written.
type Cell struct {
	date    time.Time
	wide    []uint16
	bytes   []byte
	num     uint64
	tag     Tag
	written bool
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Bool returns a boolean cell.
func Bool(v bool) Cell {
	c := Cell{tag: TagBool}
	if v {
		c.num = 1
	}
	return c
}

// Int32 returns a 32-bit integer cell.
func Int32(v int32) Cell { return Cell{tag: TagI4, num: uint64(uint32(v))} }

// Float64 returns a 64-bit float cell.
func Float64(v float64) Cell { return Cell{tag: TagR8, num: math.Float64bits(v)} }

// Date returns a date/time cell.
func Date(t time.Time) Cell { return Cell{tag: TagDate, date: t} }

// NarrowBytes returns a narrow string cell over raw code page bytes.
func NarrowBytes(b []byte) Cell { return Cell{tag: TagPSTR, bytes: b} }

// Wide returns a wide string cell over UTF-16 code units.
func Wide(units []uint16) Cell { return Cell{tag: TagPWSTR, wide: units} }

// Blob returns a binary cell.
func Blob(b []byte) Cell { return Cell{tag: TagBlob, bytes: b} }

// Tag returns the discriminant.
func (c *Cell) Tag() Tag { return c.tag }

// IsEmpty reports whether the cell holds no value.
func (c *Cell) IsEmpty() bool { return c.tag == TagEmpty }

// Written reports whether the cell was written since the last Reset.
func (c *Cell) Written() bool { return c.written }

// Reset empties the cell and re-arms it for one write.
func (c *Cell) Reset() { *c = Cell{} }

// Bool reads a BOOL cell.
func (c *Cell) Bool() (bool, error) {
	if c.tag != TagBool {
		return false, c.mismatch(TagBool)
	}
	return c.num != 0, nil
}

// Int32 reads an I4 cell.
func (c *Cell) Int32() (int32, error) {
	if c.tag != TagI4 {
		return 0, c.mismatch(TagI4)
	}
	return int32(uint32(c.num)), nil
}

// Float64 reads an R8 cell.
func (c *Cell) Float64() (float64, error) {
	if c.tag != TagR8 {
		return 0, c.mismatch(TagR8)
	}
	return math.Float64frombits(c.num), nil
}

// Date reads a TM cell.
func (c *Cell) Date() (time.Time, error) {
	if c.tag != TagDate {
		return time.Time{}, c.mismatch(TagDate)
	}
	return c.date, nil
}

// Narrow reads the raw bytes of a PSTR cell.
func (c *Cell) Narrow() ([]byte, error) {
	if c.tag != TagPSTR {
		return nil, c.mismatch(TagPSTR)
	}
	return c.bytes, nil
}

// Wide reads the code units of a PWSTR cell.
func (c *Cell) Wide() ([]uint16, error) {
	if c.tag != TagPWSTR {
		return nil, c.mismatch(TagPWSTR)
	}
	return c.wide, nil
}

// Blob reads a BLOB cell.
func (c *Cell) Blob() ([]byte, error) {
	if c.tag != TagBlob {
		return nil, c.mismatch(TagBlob)
	}
	return c.bytes, nil
}

// SetEmpty writes an empty value.
func (c *Cell) SetEmpty() error {
	return c.store(Cell{tag: TagEmpty})
}

// SetBool writes a boolean.
func (c *Cell) SetBool(v bool) error {
	return c.store(Bool(v))
}

// SetInt32 writes a 32-bit integer.
func (c *Cell) SetInt32(v int32) error {
	return c.store(Int32(v))
}

// SetFloat64 writes a 64-bit float.
func (c *Cell) SetFloat64(v float64) error {
	return c.store(Float64(v))
}

// SetDate writes a date/time.
func (c *Cell) SetDate(t time.Time) error {
	return c.store(Date(t))
}

// SetNarrow writes a narrow string. The cell takes ownership of b.
func (c *Cell) SetNarrow(b []byte) error {
	return c.store(NarrowBytes(b))
}

// SetWide writes a wide string. The cell takes ownership of units.
func (c *Cell) SetWide(units []uint16) error {
	return c.store(Wide(units))
}

// SetBlob writes binary data. The cell takes ownership of b.
func (c *Cell) SetBlob(b []byte) error {
	return c.store(Blob(b))
}

// Set copies v into the cell.
func (c *Cell) Set(v Cell) error {
	if !v.tag.Valid() {
		return errors.InvalidData(errors.PhaseMarshal, nil, fmt.Sprintf("invalid cell tag %d", v.tag))
	}
	return c.store(v)
}

func (c *Cell) store(v Cell) error {
	if c.written {
		return errors.AlreadyWritten(errors.PhaseMarshal, nil, c.tag.String())
	}
	*c = v
	c.written = true
	return nil
}

func (c *Cell) mismatch(want Tag) *errors.Error {
	return errors.New(errors.PhaseMarshal, errors.KindTypeMismatch).
		HostType(c.tag.String()).
		Detail("cannot read %s cell as %s", c.tag, want).
		Build()
}

// String renders the cell for diagnostics and the CLI.
func (c Cell) String() string {
	switch c.tag {
	case TagEmpty:
		return "<empty>"
	case TagBool:
		return fmt.Sprint(c.num != 0)
	case TagI4:
		return fmt.Sprint(int32(uint32(c.num)))
	case TagR8:
		return fmt.Sprint(math.Float64frombits(c.num))
	case TagDate:
		return c.date.Format(time.RFC3339Nano)
	case TagPSTR:
		return string(c.bytes)
	case TagPWSTR:
		return decodeForDisplay(c.wide)
	case TagBlob:
		return fmt.Sprintf("<blob %d bytes>", len(c.bytes))
	default:
		return fmt.Sprintf("<tag %d>", c.tag)
	}
}
