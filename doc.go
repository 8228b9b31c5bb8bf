// Package nativeaddin bridges a host application and native Go components
// that expose methods and properties through an index-based calling
// convention.
//
// The host never sees Go types. It resolves a member name to an index once,
// then calls by index with an array of tagged value cells and receives a
// boolean success flag. Failure details go into a per-instance error slot
// that the host reads back through an ordinary string property.
//
// # Packages
//
//	nativeaddin/         Memory and Allocator interfaces shared by the wire codec
//	├── wide/            UTF-16 codec with pooled small buffers and case folding
//	├── variant/         Value cells, Go <-> cell marshalling, code pages, wire layout
//	├── addin/           Registries, dispatch, error slot, class library
//	├── addins/          Bundled classes: stopwatch (Instant) and sysutil (Utils)
//	├── resource/        Handle table for live instances
//	├── wasmhost/        wazero host module exposing the library to wasm guests
//	├── errors/          Structured error types
//	└── cmd/addin/       CLI for inspecting and calling classes
//
// # Defining a class
//
//	type Counter struct{ n int32 }
//
//	func (c *Counter) Add(d int32) (int32, error) { c.n += d; return c.n, nil }
//
//	var CounterClass = addin.MustRegistry("Counter",
//	    func() *Counter { return &Counter{} },
//	    []addin.Method[Counter]{addin.Func1("Add", (*Counter).Add)},
//	    nil,
//	    addin.WithLastError(addin.DefaultErrorProperty, addin.ClearOnSuccess),
//	)
//
// # Calling from the host side
//
//	obj := CounterClass.NewObject()
//	idx := addin.FindMethodName(obj, "add")
//	var out variant.Cell
//	if !obj.CallAsFunc(idx, &out, []variant.Cell{variant.Int32(2)}) {
//	    fmt.Println(obj.LastError())
//	}
//
// # Thread Safety
//
// A Registry is immutable after construction and safe for concurrent use.
// Each instance serializes its own calls; separate instances share nothing.
package nativeaddin
