package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	nativeaddin "github.com/wippyai/native-addin"
	"github.com/wippyai/native-addin/addin"
	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/resource"
	"github.com/wippyai/native-addin/variant"
	"github.com/wippyai/native-addin/wasmhost/internal/memory"
	"github.com/wippyai/native-addin/wide"
)

const (
	// ModuleName is the import module guests link against.
	ModuleName = "addin"

	// AllocExport is the guest export used to allocate result payloads.
	AllocExport = "addin_alloc"

	// FreeExport is the optional guest export `(ptr, size, align)` that takes
	// back a payload the host allocated but could not deliver.
	FreeExport = "addin_free"

	// MaxNameLen bounds names read from guest memory, in code units.
	MaxNameLen = 1024
)

// Host owns the instances created by one or more guests.
type Host struct {
	lib     *addin.Library
	objects *resource.Table[addin.Object]
	logger  *zap.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host's logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// New returns a host serving lib.
func New(lib *addin.Library, opts ...Option) *Host {
	h := &Host{
		lib:     lib,
		objects: resource.NewTable[addin.Object](),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = Logger()
	}
	h.objects.Subscribe(resource.ObserverFunc(func(e resource.Event) {
		h.logger.Debug("instance "+e.Type.String(),
			zap.String("class", e.Class),
			zap.Uint32("handle", uint32(e.Handle)))
	}))
	return h
}

// Objects returns the handle table of live instances.
func (h *Host) Objects() *resource.Table[addin.Object] { return h.objects }

// Close destroys every live instance.
func (h *Host) Close() error {
	h.objects.Each(func(handle resource.Handle, class string, _ addin.Object) bool {
		h.logger.Debug("closing live instance",
			zap.String("class", class),
			zap.Uint32("handle", uint32(handle)))
		return true
	})
	return h.objects.Close()
}

// Instantiate registers the host module in rt. It must run before any guest
// importing it is instantiated.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32
	builder := rt.NewHostModuleBuilder(ModuleName)

	funcs := []struct {
		fn      api.GoModuleFunc
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{h.classNames, "class_names", []api.ValueType{i32}, []api.ValueType{i32}},
		{h.create, "create", []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{h.destroy, "destroy", []api.ValueType{i32}, []api.ValueType{i32}},
		{h.findMethod, "find_method", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{h.methodParams, "method_params", []api.ValueType{i32, i32}, []api.ValueType{i32}},
		{h.call, "call", []api.ValueType{i32, i32, i32, i32, i32}, []api.ValueType{i32}},
		{h.findProp, "find_prop", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{h.getProp, "get_prop", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
		{h.setProp, "set_prop", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}},
	}
	for _, f := range funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, f.params, f.results).
			Export(f.name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindRegistration, err, "instantiate host module "+ModuleName)
	}
	return mod, nil
}

var errNoMemory = errors.InvalidInput(errors.PhaseHost, "guest exports no memory")

// guest bundles the caller's memory and allocator for one host call.
type guest struct {
	mem   nativeaddin.Memory
	alloc nativeaddin.Allocator
}

func guestOf(ctx context.Context, mod api.Module) guest {
	g := guest{mem: memory.WrapMemory(mod.Memory())}
	if fn := mod.ExportedFunction(AllocExport); fn != nil {
		g.alloc = memory.WrapAllocator(ctx, fn, mod.ExportedFunction(FreeExport))
	}
	return g
}

func (g guest) readName(ptr, n uint32, buf *wide.Buffer) ([]uint16, error) {
	if n > MaxNameLen {
		return nil, errors.InvalidInput(errors.PhaseHost, "name too long")
	}
	if g.mem == nil {
		return nil, errNoMemory
	}
	raw, err := g.mem.Read(ptr, n*2)
	if err != nil {
		return nil, errors.OutOfBounds(errors.PhaseHost, nil, ptr, n*2)
	}
	return buf.FromBytesLE(raw), nil
}

func (g guest) writeCell(addr uint32, c *variant.Cell) error {
	if g.mem == nil {
		return errNoMemory
	}
	return variant.WriteCell(g.mem, g.alloc, addr, c)
}

func boolResult(stack []uint64, ok bool) {
	if ok {
		stack[0] = 1
	} else {
		stack[0] = 0
	}
}

func (h *Host) classNames(ctx context.Context, mod api.Module, stack []uint64) {
	out := api.DecodeU32(stack[0])
	cell := variant.Wide(wide.Encode(h.lib.ClassNames()))
	if err := guestOf(ctx, mod).writeCell(out, &cell); err != nil {
		h.logger.Warn("class_names: failed to write result", zap.Error(err))
		boolResult(stack, false)
		return
	}
	boolResult(stack, true)
}

func (h *Host) create(ctx context.Context, mod api.Module, stack []uint64) {
	ptr, n := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	stack[0] = 0

	var buf wide.Buffer
	defer buf.Release()
	name, err := guestOf(ctx, mod).readName(ptr, n, &buf)
	if err != nil {
		h.logger.Warn("create: bad class name", zap.Error(err))
		return
	}

	obj, err := h.lib.CreateWide(name)
	if err != nil {
		h.logger.Debug("create failed", zap.Error(err))
		return
	}
	handle, err := h.objects.Insert(obj.ClassName(), obj)
	if err != nil {
		h.logger.Warn("create: handle table rejected instance", zap.Error(err))
		return
	}
	stack[0] = api.EncodeU32(uint32(handle))
}

func (h *Host) destroy(_ context.Context, _ api.Module, stack []uint64) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	class, _ := h.objects.Class(handle)
	if _, err := h.objects.Remove(handle); err != nil {
		h.logger.Debug("destroy failed",
			zap.String("class", class),
			zap.Uint32("handle", uint32(handle)),
			zap.Error(err))
		boolResult(stack, false)
		return
	}
	boolResult(stack, true)
}

// lookup resolves a name on the instance behind handle, or -1.
func (h *Host) lookup(ctx context.Context, mod api.Module, stack []uint64, find func(addin.Object, []uint16) int) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	ptr, n := api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
	stack[0] = api.EncodeI32(-1)

	obj, ok := h.objects.Get(handle)
	if !ok {
		return
	}
	var buf wide.Buffer
	defer buf.Release()
	name, err := guestOf(ctx, mod).readName(ptr, n, &buf)
	if err != nil {
		h.logger.Warn("bad member name", zap.Error(err))
		return
	}
	stack[0] = api.EncodeI32(int32(find(obj, name)))
}

func (h *Host) findMethod(ctx context.Context, mod api.Module, stack []uint64) {
	h.lookup(ctx, mod, stack, addin.Object.FindMethod)
}

func (h *Host) findProp(ctx context.Context, mod api.Module, stack []uint64) {
	h.lookup(ctx, mod, stack, addin.Object.FindProp)
}

func (h *Host) methodParams(_ context.Context, _ api.Module, stack []uint64) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	idx := api.DecodeI32(stack[1])
	stack[0] = api.EncodeI32(-1)

	obj, ok := h.objects.Get(handle)
	if !ok || idx < 0 || int(idx) >= obj.NumMethods() {
		return
	}
	stack[0] = api.EncodeI32(int32(obj.NumParams(int(idx))))
}

func (h *Host) call(ctx context.Context, mod api.Module, stack []uint64) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	idx := int(api.DecodeI32(stack[1]))
	argsPtr, argc := api.DecodeU32(stack[2]), api.DecodeU32(stack[3])
	outPtr := api.DecodeU32(stack[4])
	stack[0] = 0

	obj, ok := h.objects.Borrow(handle)
	if !ok {
		h.logger.Debug("call on invalid handle", zap.Uint32("handle", uint32(handle)))
		return
	}
	defer h.objects.ReturnBorrow(handle)

	g := guestOf(ctx, mod)

	// Cells are read only when the count matches the declaration; otherwise
	// the instance reports the mismatch without touching guest memory.
	var args []variant.Cell
	if idx >= 0 && idx < obj.NumMethods() && int(argc) == obj.NumParams(idx) {
		method := obj.MethodName(idx)
		if argc > 0 && g.mem == nil {
			obj.Fail(method, errNoMemory)
			return
		}
		var err error
		if args, err = variant.ReadCells(g.mem, argsPtr, int(argc)); err != nil {
			h.logger.Warn("call: failed to read arguments",
				zap.String("method", method),
				zap.Error(err))
			obj.Fail(method, err)
			return
		}
	} else {
		args = make([]variant.Cell, min(argc, addin.MaxArity+1))
	}

	if !obj.HasResult(idx) {
		boolResult(stack, obj.CallAsProc(idx, args))
		return
	}

	var out variant.Cell
	if !obj.CallAsFunc(idx, &out, args) {
		return
	}
	if outPtr == 0 {
		boolResult(stack, true)
		return
	}
	if err := g.writeCell(outPtr, &out); err != nil {
		h.logger.Warn("call: failed to write result",
			zap.String("method", obj.MethodName(idx)),
			zap.Error(err))
		obj.Fail(obj.MethodName(idx), err)
		return
	}
	boolResult(stack, true)
}

func (h *Host) getProp(ctx context.Context, mod api.Module, stack []uint64) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	idx := int(api.DecodeI32(stack[1]))
	outPtr := api.DecodeU32(stack[2])
	stack[0] = 0

	obj, ok := h.objects.Borrow(handle)
	if !ok {
		return
	}
	defer h.objects.ReturnBorrow(handle)

	var out variant.Cell
	if !obj.GetProp(idx, &out) {
		return
	}
	if err := guestOf(ctx, mod).writeCell(outPtr, &out); err != nil {
		h.logger.Warn("get_prop: failed to write value",
			zap.String("property", obj.PropName(idx)),
			zap.Error(err))
		obj.Fail(obj.PropName(idx), err)
		return
	}
	boolResult(stack, true)
}

func (h *Host) setProp(ctx context.Context, mod api.Module, stack []uint64) {
	handle := resource.Handle(api.DecodeU32(stack[0]))
	idx := int(api.DecodeI32(stack[1]))
	inPtr := api.DecodeU32(stack[2])
	stack[0] = 0

	obj, ok := h.objects.Borrow(handle)
	if !ok {
		return
	}
	defer h.objects.ReturnBorrow(handle)

	// Index and writability are checked before the cell is read.
	if idx < 0 || idx >= obj.NumProps() || !obj.IsPropWritable(idx) {
		boolResult(stack, obj.SetProp(idx, &variant.Cell{}))
		return
	}

	g := guestOf(ctx, mod)
	if g.mem == nil {
		obj.Fail(obj.PropName(idx), errNoMemory)
		return
	}
	in, err := variant.ReadCell(g.mem, inPtr)
	if err != nil {
		h.logger.Warn("set_prop: failed to read value",
			zap.String("property", obj.PropName(idx)),
			zap.Error(err))
		obj.Fail(obj.PropName(idx), err)
		return
	}
	boolResult(stack, obj.SetProp(idx, &in))
}
