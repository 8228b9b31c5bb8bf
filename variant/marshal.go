package variant

import (
	"math"
	"time"

	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/wide"
)

// Narrow is a Go string that Store writes as a narrow (PSTR) cell in the
// converter's code page.
type Narrow string

// Value is the set of Go types that marshal to and from cells.
type Value interface {
	bool | int | int32 | int64 | uint32 | float64 | string | Narrow | []byte | time.Time | Cell
}

// TagFor returns the tag a value of type V is stored as. Cell yields TagAny.
func TagFor[V Value]() Tag {
	var v V
	switch any(v).(type) {
	case bool:
		return TagBool
	case int, int32, int64, uint32:
		return TagI4
	case float64:
		return TagR8
	case string:
		return TagPWSTR
	case Narrow:
		return TagPSTR
	case []byte:
		return TagBlob
	case time.Time:
		return TagDate
	default:
		return TagAny
	}
}

// Load converts cell to V. Integer targets reject values outside their range,
// string targets accept PWSTR and PSTR, []byte accepts BLOB, PSTR and PWSTR
// (as UTF-8). All other combinations are type mismatches.
func Load[V Value](conv *Converter, cell *Cell) (V, error) {
	var v V
	var err error
	switch p := any(&v).(type) {
	case *bool:
		*p, err = cell.Bool()
	case *int:
		var n int32
		n, err = cell.Int32()
		*p = int(n)
	case *int32:
		*p, err = cell.Int32()
	case *int64:
		var n int32
		n, err = cell.Int32()
		*p = int64(n)
	case *uint32:
		var n int32
		n, err = cell.Int32()
		if err == nil && n < 0 {
			return v, errors.Range(errors.PhaseMarshal, nil, n, "uint32")
		}
		*p = uint32(n)
	case *float64:
		*p, err = cell.Float64()
	case *string:
		*p, err = conv.Text(cell)
	case *Narrow:
		var s string
		s, err = conv.Text(cell)
		*p = Narrow(s)
	case *[]byte:
		*p, err = loadBytes(cell)
	case *time.Time:
		*p, err = cell.Date()
	case *Cell:
		*p = *cell
		p.written = false
	}
	if err != nil {
		return v, withGoType[V](err)
	}
	return v, nil
}

// Store writes v into cell. Integers outside the host's 32-bit signed range
// fail with a range error instead of truncating.
func Store[V Value](conv *Converter, cell *Cell, v V) error {
	switch x := any(v).(type) {
	case bool:
		return cell.SetBool(x)
	case int:
		return storeInt(cell, int64(x))
	case int32:
		return cell.SetInt32(x)
	case int64:
		return storeInt(cell, x)
	case uint32:
		return storeInt(cell, int64(x))
	case float64:
		return cell.SetFloat64(x)
	case string:
		return cell.SetWide(wide.Encode(x))
	case Narrow:
		b, err := conv.EncodeNarrow(string(x))
		if err != nil {
			return err
		}
		return cell.SetNarrow(b)
	case []byte:
		return cell.SetBlob(append([]byte(nil), x...))
	case time.Time:
		return cell.SetDate(x)
	case Cell:
		return cell.Set(x)
	}
	return errors.Unsupported(errors.PhaseMarshal, "value type")
}

func storeInt(cell *Cell, n int64) error {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return errors.Range(errors.PhaseMarshal, nil, n, TagI4.String())
	}
	return cell.SetInt32(int32(n))
}

func loadBytes(cell *Cell) ([]byte, error) {
	switch cell.tag {
	case TagBlob, TagPSTR:
		return cell.bytes, nil
	case TagPWSTR:
		buf := make([]byte, 0, len(cell.wide)*3)
		return wide.AppendDecode(buf, cell.wide)
	default:
		return nil, cell.mismatch(TagBlob)
	}
}

func withGoType[V Value](err error) error {
	e, ok := err.(*errors.Error)
	if !ok || e.GoType != "" {
		return err
	}
	cp := *e
	cp.GoType = goTypeName[V]()
	return &cp
}

func goTypeName[V Value]() string {
	var v V
	switch any(v).(type) {
	case bool:
		return "bool"
	case int:
		return "int"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case uint32:
		return "uint32"
	case float64:
		return "float64"
	case string:
		return "string"
	case Narrow:
		return "variant.Narrow"
	case []byte:
		return "[]byte"
	case time.Time:
		return "time.Time"
	default:
		return "variant.Cell"
	}
}
