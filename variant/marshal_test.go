package variant

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/wide"
)

func roundTrip[V Value](t *testing.T, conv *Converter, v V) V {
	t.Helper()
	var c Cell
	if err := Store(conv, &c, v); err != nil {
		t.Fatalf("Store(%v) failed: %v", v, err)
	}
	if c.Tag() != TagFor[V]() && TagFor[V]() != TagAny {
		t.Errorf("Store tag = %s, want %s", c.Tag(), TagFor[V]())
	}
	got, err := Load[V](conv, &c)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return got
}

func TestMarshal_RoundTrip(t *testing.T) {
	conv := UTF8
	now := time.Date(2031, 12, 31, 23, 59, 59, 999, time.UTC)

	t.Run("bool", func(t *testing.T) {
		for _, v := range []bool{true, false} {
			if got := roundTrip(t, conv, v); got != v {
				t.Errorf("got %v, want %v", got, v)
			}
		}
	})
	t.Run("int32", func(t *testing.T) {
		for _, v := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32} {
			if got := roundTrip(t, conv, v); got != v {
				t.Errorf("got %d, want %d", got, v)
			}
		}
	})
	t.Run("int", func(t *testing.T) {
		for _, v := range []int{0, 123456, -123456, math.MaxInt32} {
			if got := roundTrip(t, conv, v); got != v {
				t.Errorf("got %d, want %d", got, v)
			}
		}
	})
	t.Run("float64", func(t *testing.T) {
		for _, v := range []float64{0, -0.5, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64} {
			if got := roundTrip(t, conv, v); got != v {
				t.Errorf("got %v, want %v", got, v)
			}
		}
	})
	t.Run("string", func(t *testing.T) {
		for _, v := range []string{"", "hello", "Привет, мир", "emoji 🎉"} {
			if got := roundTrip(t, conv, v); got != v {
				t.Errorf("got %q, want %q", got, v)
			}
		}
	})
	t.Run("narrow", func(t *testing.T) {
		if got := roundTrip(t, conv, Narrow("plain")); got != "plain" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("bytes", func(t *testing.T) {
		v := []byte{0, 1, 2, 0xff}
		if got := roundTrip(t, conv, v); !bytes.Equal(got, v) {
			t.Errorf("got %x, want %x", got, v)
		}
	})
	t.Run("time", func(t *testing.T) {
		if got := roundTrip(t, conv, now); !got.Equal(now) {
			t.Errorf("got %v, want %v", got, now)
		}
	})
	t.Run("cell", func(t *testing.T) {
		got := roundTrip(t, conv, Int32(9))
		if got.Written() {
			t.Error("loaded cell should not be marked written")
		}
		if v, _ := got.Int32(); v != 9 {
			t.Errorf("got %d", v)
		}
	})
}

func TestStore_Range(t *testing.T) {
	tests := []struct {
		name  string
		store func(c *Cell) error
	}{
		{"int over", func(c *Cell) error { return Store(UTF8, c, int(math.MaxInt32)+1) }},
		{"int under", func(c *Cell) error { return Store(UTF8, c, int(math.MinInt32)-1) }},
		{"int64", func(c *Cell) error { return Store(UTF8, c, int64(1)<<40) }},
		{"uint32", func(c *Cell) error { return Store(UTF8, c, uint32(math.MaxUint32)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cell
			err := tt.store(&c)
			if !errors.HasKind(err, errors.KindRange) {
				t.Fatalf("err = %v, want range", err)
			}
			if c.Written() {
				t.Error("failed store must leave the cell unwritten")
			}
		})
	}
}

func TestLoad_Range(t *testing.T) {
	c := Int32(-1)
	_, err := Load[uint32](UTF8, &c)
	if !errors.HasKind(err, errors.KindRange) {
		t.Errorf("Load[uint32](-1) err = %v, want range", err)
	}
}

func TestLoad_TypeMismatch(t *testing.T) {
	c := Wide(wide.Encode("10"))
	_, err := Load[int32](UTF8, &c)
	if !errors.HasKind(err, errors.KindTypeMismatch) {
		t.Fatalf("err = %v, want type_mismatch", err)
	}
	if e := err.(*errors.Error); e.GoType != "int32" || e.HostType != "PWSTR" {
		t.Errorf("GoType/HostType = %q/%q", e.GoType, e.HostType)
	}

	n := Int32(1)
	if _, err := Load[float64](UTF8, &n); !errors.HasKind(err, errors.KindTypeMismatch) {
		t.Errorf("Load[float64](I4) err = %v", err)
	}
	if _, err := Load[string](UTF8, &n); !errors.HasKind(err, errors.KindTypeMismatch) {
		t.Errorf("Load[string](I4) err = %v", err)
	}
}

func TestLoad_StringSources(t *testing.T) {
	w := Wide(wide.Encode("wide"))
	if s, err := Load[string](UTF8, &w); err != nil || s != "wide" {
		t.Errorf("from PWSTR = %q, %v", s, err)
	}
	n := NarrowBytes([]byte("narrow"))
	if s, err := Load[string](UTF8, &n); err != nil || s != "narrow" {
		t.Errorf("from PSTR = %q, %v", s, err)
	}

	bad := Wide([]uint16{'a', 0xD800})
	if _, err := Load[string](UTF8, &bad); !errors.HasKind(err, errors.KindInvalidUTF16) {
		t.Errorf("invalid UTF-16 err = %v", err)
	}
}

func TestLoad_Bytes(t *testing.T) {
	tests := []struct {
		cell Cell
		want []byte
	}{
		{Blob([]byte{1, 2, 3}), []byte{1, 2, 3}},
		{NarrowBytes([]byte{0xC0, 0xFF}), []byte{0xC0, 0xFF}},
		{Wide(wide.Encode("жук")), []byte("жук")},
	}
	for _, tt := range tests {
		t.Run(tt.cell.Tag().String(), func(t *testing.T) {
			got, err := Load[[]byte](UTF8, &tt.cell)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %x, want %x", got, tt.want)
			}
		})
	}

	b := Bool(true)
	if _, err := Load[[]byte](UTF8, &b); !errors.HasKind(err, errors.KindTypeMismatch) {
		t.Errorf("Load[[]byte](BOOL) err = %v", err)
	}
}

func TestStore_BytesCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	var c Cell
	if err := Store(UTF8, &c, src); err != nil {
		t.Fatal(err)
	}
	src[0] = 9
	got, _ := c.Blob()
	if got[0] != 1 {
		t.Error("stored blob aliases caller slice")
	}
}

func TestTagFor(t *testing.T) {
	if TagFor[int]() != TagI4 || TagFor[uint32]() != TagI4 {
		t.Error("integer types should map to I4")
	}
	if TagFor[string]() != TagPWSTR || TagFor[Narrow]() != TagPSTR {
		t.Error("string types")
	}
	if TagFor[Cell]() != TagAny {
		t.Error("Cell should map to ANY")
	}
}
