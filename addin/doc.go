// Package addin implements the dispatch side of a native component: ordered
// method and property tables built from typed Go functions, and instances
// that turn host calls into native calls.
//
// A class is described once by a Registry:
//
//	var class = addin.MustRegistry("Counter", newCounter,
//		[]addin.Method[Counter]{
//			addin.Proc0("Reset", (*Counter).reset),
//			addin.Func1("Add", (*Counter).add),
//		},
//		[]addin.Property[Counter]{
//			addin.ReadOnly("Value", (*Counter).value),
//		},
//		addin.WithLastError(addin.DefaultErrorProperty, addin.ClearOnSuccess),
//	)
//
// The host resolves names to indices once with FindMethod and FindProp and
// then calls by index. Each call returns a bool; when it returns false the
// failure has already been recorded in the instance's error slot and can be
// read back through the LastError property.
//
// Argument count is checked before any argument cell is read. Argument and
// result conversion follows the variant package. Panics in native code are
// recovered and reported as native failures.
package addin
