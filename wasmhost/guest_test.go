package wasmhost

import (
	"bytes"
)

// guestImport is one function the test guest imports from the host module.
type guestImport struct {
	name   string
	params int
}

var hostImports = []guestImport{
	{"class_names", 1},
	{"create", 2},
	{"destroy", 1},
	{"find_method", 3},
	{"method_params", 2},
	{"call", 5},
	{"find_prop", 3},
	{"get_prop", 3},
	{"set_prop", 3},
}

const (
	heapBase = 4096
	valI32   = 0x7f
)

func appendULEB(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

func appendSLEB(b []byte, v int32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0)
		if !done {
			c |= 0x80
		}
		b = append(b, c)
		if done {
			return b
		}
	}
}

func appendName(b []byte, s string) []byte {
	b = appendULEB(b, uint32(len(s)))
	return append(b, s...)
}

func appendSection(b []byte, id byte, body []byte) []byte {
	b = append(b, id)
	b = appendULEB(b, uint32(len(body)))
	return append(b, body...)
}

// buildGuest assembles a module that imports every host function, re-exports
// each as "g_<name>", and exports memory, a bump allocator, and a free
// function that stores the pointer it was given in the "last_free" global.
func buildGuest(imports []guestImport) []byte {
	n := uint32(len(imports))
	allocType, freeType := n, n+1

	var types []byte
	types = appendULEB(types, n+2)
	for _, imp := range imports {
		types = append(types, 0x60)
		types = appendULEB(types, uint32(imp.params))
		for i := 0; i < imp.params; i++ {
			types = append(types, valI32)
		}
		types = append(types, 0x01, valI32)
	}
	types = append(types, 0x60, 0x01, valI32, 0x01, valI32)
	types = append(types, 0x60, 0x03, valI32, valI32, valI32, 0x00)

	var imps []byte
	imps = appendULEB(imps, n)
	for i, imp := range imports {
		imps = appendName(imps, ModuleName)
		imps = appendName(imps, imp.name)
		imps = append(imps, 0x00)
		imps = appendULEB(imps, uint32(i))
	}

	var funcs []byte
	funcs = appendULEB(funcs, n+2)
	for i := range imports {
		funcs = appendULEB(funcs, uint32(i))
	}
	funcs = appendULEB(funcs, allocType)
	funcs = appendULEB(funcs, freeType)

	mem := []byte{0x01, 0x00, 0x02}

	var globals []byte
	globals = append(globals, 0x02, valI32, 0x01, 0x41)
	globals = appendSLEB(globals, heapBase)
	globals = append(globals, 0x0b)
	globals = append(globals, valI32, 0x01, 0x41, 0x00, 0x0b)

	var exports []byte
	exports = appendULEB(exports, n+4)
	exports = appendName(exports, "memory")
	exports = append(exports, 0x02, 0x00)
	for i, imp := range imports {
		exports = appendName(exports, "g_"+imp.name)
		exports = append(exports, 0x00)
		exports = appendULEB(exports, n+uint32(i))
	}
	exports = appendName(exports, AllocExport)
	exports = append(exports, 0x00)
	exports = appendULEB(exports, 2*n)
	exports = appendName(exports, FreeExport)
	exports = append(exports, 0x00)
	exports = appendULEB(exports, 2*n+1)
	exports = appendName(exports, "last_free")
	exports = append(exports, 0x03, 0x01)

	var code []byte
	code = appendULEB(code, n+2)
	for i, imp := range imports {
		body := []byte{0x00}
		for p := 0; p < imp.params; p++ {
			body = append(body, 0x20)
			body = appendULEB(body, uint32(p))
		}
		body = append(body, 0x10)
		body = appendULEB(body, uint32(i))
		body = append(body, 0x0b)
		code = appendULEB(code, uint32(len(body)))
		code = append(code, body...)
	}
	// (local $p i32)
	// $p = (heap + 7) & -8; heap = $p + size; return $p
	alloc := []byte{
		0x01, 0x01, valI32,
		0x23, 0x00,
		0x41, 0x07,
		0x6a,
		0x41, 0x78,
		0x71,
		0x22, 0x01,
		0x20, 0x00,
		0x6a,
		0x24, 0x00,
		0x20, 0x01,
		0x0b,
	}
	code = appendULEB(code, uint32(len(alloc)))
	code = append(code, alloc...)
	// last_free = ptr
	free := []byte{0x00, 0x20, 0x00, 0x24, 0x01, 0x0b}
	code = appendULEB(code, uint32(len(free)))
	code = append(code, free...)

	var out bytes.Buffer
	out.Write([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})
	var b []byte
	b = appendSection(b, 1, types)
	b = appendSection(b, 2, imps)
	b = appendSection(b, 3, funcs)
	b = appendSection(b, 5, mem)
	b = appendSection(b, 6, globals)
	b = appendSection(b, 7, exports)
	b = appendSection(b, 10, code)
	out.Write(b)
	return out.Bytes()
}
