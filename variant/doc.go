// Package variant implements the value cell exchanged with the host: a tagged
// union holding one of empty, boolean, 32-bit integer, 64-bit float,
// date/time, narrow string, wide string or binary blob.
//
// # Reading
//
// Accessors are strict. Reading a cell through the accessor of another tag
// fails with a type_mismatch error; it never reinterprets the payload.
//
//	n, err := cell.Int32() // err if cell.Tag() != TagI4
//
// # Writing
//
// Output cells are write-once per call. The first Set* stores the value; any
// further Set* fails with already_written until the host calls Reset.
//
// # Typed marshalling
//
// Load and Store convert between cells and ordinary Go values:
//
//	ms, err := variant.Load[int32](conv, &arg)
//	err = variant.Store(conv, &out, os.Getpid()) // range error if it overflows I4
//
// Go strings are always written as wide strings. Narrow (code page) strings
// are produced only for the Narrow type and decoded through a Converter.
//
// # Wire layout
//
// ReadCell and WriteCell move cells through host linear memory using a fixed
// 24-byte layout; see wire.go.
package variant
