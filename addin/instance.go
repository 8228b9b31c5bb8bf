package addin

import (
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/variant"
)

// InstanceOption configures an Instance.
type InstanceOption func(*instanceConfig)

type instanceConfig struct {
	conv   *variant.Converter
	logger *zap.Logger
}

// WithConverter sets the converter used for narrow strings.
func WithConverter(conv *variant.Converter) InstanceOption {
	return func(c *instanceConfig) { c.conv = conv }
}

// WithInstanceLogger overrides the package logger for one instance.
func WithInstanceLogger(l *zap.Logger) InstanceOption {
	return func(c *instanceConfig) { c.logger = l }
}

// Instance binds a registry to one native object and its error slot. It is
// the dispatcher: every host call goes through it and no failure or panic
// escapes as anything other than a false return.
type Instance[T any] struct {
	reg    *Registry[T]
	obj    *T
	slot   *ErrorSlot
	conv   *variant.Converter
	logger *zap.Logger
	mu     sync.Mutex
}

var _ Object = (*Instance[struct{}])(nil)

func newInstance[T any](reg *Registry[T], obj *T, opts ...InstanceOption) *Instance[T] {
	cfg := instanceConfig{conv: variant.UTF8}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.conv == nil {
		cfg.conv = variant.UTF8
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}

	inst := &Instance[T]{
		reg:    reg,
		obj:    obj,
		conv:   cfg.conv,
		logger: cfg.logger.With(zap.String("class", reg.name)),
	}
	if reg.HasErrorSlot() {
		inst.slot = NewErrorSlot(reg.policy)
	}
	return inst
}

// Native returns the object the instance dispatches to.
func (in *Instance[T]) Native() *T { return in.obj }

// ClassName returns the registry name.
func (in *Instance[T]) ClassName() string { return in.reg.name }

// NumMethods returns the number of methods.
func (in *Instance[T]) NumMethods() int { return in.reg.NumMethods() }

// FindMethod resolves a method name, ignoring case, or returns -1.
func (in *Instance[T]) FindMethod(name []uint16) int { return in.reg.FindMethod(name) }

// MethodName returns the name of method i, or "" for a bad index.
func (in *Instance[T]) MethodName(i int) string {
	if i < 0 || i >= len(in.reg.methods) {
		return ""
	}
	return in.reg.methods[i].name
}

// NumParams returns the arity of method i.
func (in *Instance[T]) NumParams(i int) int {
	if i < 0 || i >= len(in.reg.methods) {
		return 0
	}
	return len(in.reg.methods[i].params)
}

// ParamTag returns the declared tag of one argument of method i.
func (in *Instance[T]) ParamTag(i, param int) variant.Tag {
	if i < 0 || i >= len(in.reg.methods) {
		return variant.TagEmpty
	}
	params := in.reg.methods[i].params
	if param < 0 || param >= len(params) {
		return variant.TagEmpty
	}
	return params[param]
}

// HasResult reports whether method i produces a value.
func (in *Instance[T]) HasResult(i int) bool {
	if i < 0 || i >= len(in.reg.methods) {
		return false
	}
	return in.reg.methods[i].hasResult
}

// ResultTag returns the result tag of method i, TagEmpty for procedures.
func (in *Instance[T]) ResultTag(i int) variant.Tag {
	if !in.HasResult(i) {
		return variant.TagEmpty
	}
	return in.reg.methods[i].result
}

// NumProps returns the number of properties, including the error slot.
func (in *Instance[T]) NumProps() int { return in.reg.NumProps() }

// FindProp resolves a property name, ignoring case, or returns -1.
func (in *Instance[T]) FindProp(name []uint16) int { return in.reg.FindProp(name) }

// PropName returns the name of property i, or "" for a bad index.
func (in *Instance[T]) PropName(i int) string {
	if i < 0 || i >= len(in.reg.props) {
		return ""
	}
	return in.reg.props[i].name
}

// PropTag returns the value tag of property i.
func (in *Instance[T]) PropTag(i int) variant.Tag {
	if i < 0 || i >= len(in.reg.props) {
		return variant.TagEmpty
	}
	return in.reg.props[i].tag
}

// IsPropReadable reports whether property i can be read.
func (in *Instance[T]) IsPropReadable(i int) bool {
	if i < 0 || i >= len(in.reg.props) {
		return false
	}
	return in.reg.props[i].Readable()
}

// IsPropWritable reports whether property i can be written.
func (in *Instance[T]) IsPropWritable(i int) bool {
	if i < 0 || i >= len(in.reg.props) {
		return false
	}
	return in.reg.props[i].Writable()
}

// CallAsProc invokes method i and discards any result.
func (in *Instance[T]) CallAsProc(i int, args []variant.Cell) bool {
	var discard variant.Cell
	return in.call(i, args, &discard)
}

// CallAsFunc invokes method i and writes its result to out. Methods without
// a result leave out empty.
func (in *Instance[T]) CallAsFunc(i int, out *variant.Cell, args []variant.Cell) bool {
	if out == nil {
		in.mu.Lock()
		defer in.mu.Unlock()
		return in.fail(errors.InvalidInput(errors.PhaseDispatch, "nil output cell").WithPath(in.reg.name))
	}
	return in.call(i, args, out)
}

func (in *Instance[T]) call(i int, args []variant.Cell, out *variant.Cell) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if i < 0 || i >= len(in.reg.methods) {
		return in.fail(errors.UnknownMethod([]string{in.reg.name}, i, len(in.reg.methods)))
	}
	m := &in.reg.methods[i]
	if len(args) != len(m.params) {
		return in.fail(errors.ArityMismatch([]string{in.reg.name, m.name}, len(m.params), len(args)))
	}

	err := in.guard(m.name, func() error {
		return m.invoke(in.obj, in.conv, args, out)
	})
	if err != nil {
		return in.fail(err)
	}
	in.succeeded()
	return true
}

// GetProp reads property i into out.
func (in *Instance[T]) GetProp(i int, out *variant.Cell) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if i < 0 || i >= len(in.reg.props) {
		return in.fail(errors.UnknownProperty([]string{in.reg.name}, i, len(in.reg.props)))
	}
	p := &in.reg.props[i]
	if out == nil {
		return in.fail(errors.InvalidInput(errors.PhaseDispatch, "nil output cell").WithPath(in.reg.name, p.name))
	}

	// Reading the slot must not disturb it.
	if p.slot {
		if err := out.SetWide(encodeText(in.slot.Text())); err != nil {
			return in.fail(in.locate(p.name, err))
		}
		return true
	}

	if p.get == nil {
		return in.fail(errors.NotReadable([]string{in.reg.name, p.name}))
	}
	err := in.guard(p.name, func() error {
		return p.get(in.obj, in.conv, out)
	})
	if err != nil {
		return in.fail(err)
	}
	in.succeeded()
	return true
}

// SetProp writes the value of cell v to property i.
func (in *Instance[T]) SetProp(i int, v *variant.Cell) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if i < 0 || i >= len(in.reg.props) {
		return in.fail(errors.UnknownProperty([]string{in.reg.name}, i, len(in.reg.props)))
	}
	p := &in.reg.props[i]
	if p.set == nil {
		return in.fail(errors.ReadOnlyProperty([]string{in.reg.name, p.name}))
	}
	if v == nil {
		return in.fail(errors.InvalidInput(errors.PhaseDispatch, "nil input cell").WithPath(in.reg.name, p.name))
	}
	err := in.guard(p.name, func() error {
		return p.set(in.obj, in.conv, v)
	})
	if err != nil {
		return in.fail(err)
	}
	in.succeeded()
	return true
}

// Fail records a failure detected outside the dispatcher, such as a host
// boundary that cannot read an argument or deliver a result, and returns the
// failure signal. The error is located at member when it is not empty.
func (in *Instance[T]) Fail(member string, err error) bool {
	if err == nil {
		err = errors.InvalidInput(errors.PhaseHost, "unspecified failure")
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.fail(in.locate(member, err))
}

// Drop releases the native object when it implements io.Closer. Hosts call
// it when they destroy the instance.
func (in *Instance[T]) Drop() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if c, ok := any(in.obj).(io.Closer); ok {
		if err := c.Close(); err != nil {
			in.logger.Debug("close failed", zap.Error(err))
		}
	}
}

// Err returns the error held by the slot, or nil. Classes without a slot
// always return nil.
func (in *Instance[T]) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.slot == nil {
		return nil
	}
	return in.slot.Err()
}

// LastError renders the slot as host text.
func (in *Instance[T]) LastError() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.slot == nil {
		return ""
	}
	return in.slot.Text()
}

// guard runs fn, converting panics and plain errors into structured native
// failures located at the member.
func (in *Instance[T]) guard(member string, fn func() error) (err *errors.Error) {
	defer func() {
		if r := recover(); r != nil {
			in.logger.Warn("recovered panic in native operation",
				zap.String("member", member),
				zap.Any("panic", r))
			err = errors.Panic([]string{in.reg.name, member}, r)
		}
	}()

	cause := fn()
	if cause == nil {
		return nil
	}
	return in.locate(member, cause)
}

// locate attaches the class and member to err.
func (in *Instance[T]) locate(member string, err error) *errors.Error {
	path := []string{in.reg.name}
	if member != "" {
		path = append(path, member)
	}
	if e, ok := err.(*errors.Error); ok {
		return e.WithPath(path...)
	}
	return errors.NativeFailure(path, err)
}

// fail records err in the slot and returns the failure signal.
func (in *Instance[T]) fail(err *errors.Error) bool {
	in.logger.Debug("call failed",
		zap.String("phase", string(err.Phase)),
		zap.String("kind", string(err.Kind)),
		zap.Error(err))
	if in.slot != nil {
		in.slot.Record(err)
	}
	return false
}

func (in *Instance[T]) succeeded() {
	if in.slot != nil {
		in.slot.Succeeded()
	}
}
