// Package wasmhost exposes an addin.Library to WebAssembly guests through a
// wazero host module, so a guest program plays the role of the host
// application.
//
// The host module is named "addin" and exports (all values i32):
//
//	class_names(out) -> ok
//	create(name_ptr, name_len) -> handle      0 on failure
//	destroy(handle) -> ok
//	find_method(handle, name_ptr, name_len) -> index or -1
//	method_params(handle, index) -> count or -1
//	call(handle, index, args_ptr, argc, out_ptr) -> ok
//	find_prop(handle, name_ptr, name_len) -> index or -1
//	get_prop(handle, index, out_ptr) -> ok
//	set_prop(handle, index, in_ptr) -> ok
//
// Names are UTF-16LE with an explicit length in code units. Arguments and
// results are 24-byte cells in the layout defined by the variant package.
// String and blob results are copied into memory obtained from the guest's
// exported addin_alloc(size) -> ptr, and belong to the guest afterwards.
//
// A false result from call, get_prop or set_prop means the failure was
// recorded in the instance's error slot; the guest reads it back through
// the LastError property.
package wasmhost
