// Package resource provides the handle table a host boundary uses to refer
// to live component instances.
//
// Hosts that cannot hold Go pointers see instances as small integer handles:
//
//	table := resource.NewTable[addin.Object]()
//
//	// Insert an instance, get a handle
//	h, err := table.Insert("Utils", obj)
//
//	// Borrow for the duration of a call
//	obj, ok := table.Borrow(h)
//	defer table.ReturnBorrow(h)
//
//	// Destroy when the host unloads it
//	obj, ok = table.Remove(h)
//
// Handle 0 is never issued, so hosts can use it as a failure value. Freed
// handles are reused. A handle with an outstanding borrow cannot be removed,
// so an instance cannot be destroyed from inside one of its own calls.
//
// Values implementing Dropper are notified when removed and when the table
// is closed.
package resource
