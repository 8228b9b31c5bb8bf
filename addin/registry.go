package addin

import (
	"strings"
	"unicode/utf8"

	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/variant"
	"github.com/wippyai/native-addin/wide"
)

// MaxArity is the largest number of arguments a method may declare.
const MaxArity = 2

// DefaultErrorProperty is the conventional name of the error slot property.
const DefaultErrorProperty = "LastError"

type invokeFunc[T any] func(obj *T, conv *variant.Converter, args []variant.Cell, out *variant.Cell) error

// Method describes one host-callable operation on *T.
type Method[T any] struct {
	name      string
	params    []variant.Tag
	result    variant.Tag
	hasResult bool
	invoke    invokeFunc[T]
}

// Name returns the host-visible name.
func (m *Method[T]) Name() string { return m.name }

// Params returns the declared argument tags.
func (m *Method[T]) Params() []variant.Tag { return m.params }

// Result returns the result tag and whether the method produces one.
func (m *Method[T]) Result() (variant.Tag, bool) { return m.result, m.hasResult }

// Func0 builds a method with no arguments and a result.
func Func0[T any, R variant.Value](name string, fn func(*T) (R, error)) Method[T] {
	return Method[T]{
		name:      name,
		result:    variant.TagFor[R](),
		hasResult: true,
		invoke: func(obj *T, conv *variant.Converter, _ []variant.Cell, out *variant.Cell) error {
			r, err := fn(obj)
			if err != nil {
				return err
			}
			return storeResult(conv, out, r)
		},
	}
}

// Func1 builds a method with one argument and a result.
func Func1[T any, A, R variant.Value](name string, fn func(*T, A) (R, error)) Method[T] {
	return Method[T]{
		name:      name,
		params:    []variant.Tag{variant.TagFor[A]()},
		result:    variant.TagFor[R](),
		hasResult: true,
		invoke: func(obj *T, conv *variant.Converter, args []variant.Cell, out *variant.Cell) error {
			a, err := loadArg[A](conv, args, 0)
			if err != nil {
				return err
			}
			r, err := fn(obj, a)
			if err != nil {
				return err
			}
			return storeResult(conv, out, r)
		},
	}
}

// Func2 builds a method with two arguments and a result.
func Func2[T any, A, B, R variant.Value](name string, fn func(*T, A, B) (R, error)) Method[T] {
	return Method[T]{
		name:      name,
		params:    []variant.Tag{variant.TagFor[A](), variant.TagFor[B]()},
		result:    variant.TagFor[R](),
		hasResult: true,
		invoke: func(obj *T, conv *variant.Converter, args []variant.Cell, out *variant.Cell) error {
			a, err := loadArg[A](conv, args, 0)
			if err != nil {
				return err
			}
			b, err := loadArg[B](conv, args, 1)
			if err != nil {
				return err
			}
			r, err := fn(obj, a, b)
			if err != nil {
				return err
			}
			return storeResult(conv, out, r)
		},
	}
}

// Proc0 builds a method with no arguments and no result.
func Proc0[T any](name string, fn func(*T) error) Method[T] {
	return Method[T]{
		name: name,
		invoke: func(obj *T, _ *variant.Converter, _ []variant.Cell, _ *variant.Cell) error {
			return fn(obj)
		},
	}
}

// Proc1 builds a method with one argument and no result.
func Proc1[T any, A variant.Value](name string, fn func(*T, A) error) Method[T] {
	return Method[T]{
		name:   name,
		params: []variant.Tag{variant.TagFor[A]()},
		invoke: func(obj *T, conv *variant.Converter, args []variant.Cell, _ *variant.Cell) error {
			a, err := loadArg[A](conv, args, 0)
			if err != nil {
				return err
			}
			return fn(obj, a)
		},
	}
}

// Proc2 builds a method with two arguments and no result.
func Proc2[T any, A, B variant.Value](name string, fn func(*T, A, B) error) Method[T] {
	return Method[T]{
		name:   name,
		params: []variant.Tag{variant.TagFor[A](), variant.TagFor[B]()},
		invoke: func(obj *T, conv *variant.Converter, args []variant.Cell, _ *variant.Cell) error {
			a, err := loadArg[A](conv, args, 0)
			if err != nil {
				return err
			}
			b, err := loadArg[B](conv, args, 1)
			if err != nil {
				return err
			}
			return fn(obj, a, b)
		},
	}
}

func loadArg[V variant.Value](conv *variant.Converter, args []variant.Cell, i int) (V, error) {
	v, err := variant.Load[V](conv, &args[i])
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return v, e.WithPath(argName(i))
		}
		return v, err
	}
	return v, nil
}

func storeResult[V variant.Value](conv *variant.Converter, out *variant.Cell, v V) error {
	if err := variant.Store(conv, out, v); err != nil {
		if e, ok := err.(*errors.Error); ok {
			return e.WithPath("result")
		}
		return err
	}
	return nil
}

func argName(i int) string {
	return "arg" + string(rune('0'+i))
}

type getFunc[T any] func(obj *T, conv *variant.Converter, out *variant.Cell) error
type setFunc[T any] func(obj *T, conv *variant.Converter, in *variant.Cell) error

// Property describes one host-visible property on *T.
type Property[T any] struct {
	name string
	tag  variant.Tag
	get  getFunc[T]
	set  setFunc[T]
	slot bool
}

// Name returns the host-visible name.
func (p *Property[T]) Name() string { return p.name }

// Tag returns the property's value tag.
func (p *Property[T]) Tag() variant.Tag { return p.tag }

// Readable reports whether the property has a getter.
func (p *Property[T]) Readable() bool { return p.get != nil || p.slot }

// Writable reports whether the property has a setter.
func (p *Property[T]) Writable() bool { return p.set != nil }

// Prop builds a property. A nil get makes it write-only, a nil set makes it
// read-only.
func Prop[T any, V variant.Value](name string, get func(*T) (V, error), set func(*T, V) error) Property[T] {
	p := Property[T]{name: name, tag: variant.TagFor[V]()}
	if get != nil {
		p.get = func(obj *T, conv *variant.Converter, out *variant.Cell) error {
			v, err := get(obj)
			if err != nil {
				return err
			}
			return storeResult(conv, out, v)
		}
	}
	if set != nil {
		p.set = func(obj *T, conv *variant.Converter, in *variant.Cell) error {
			v, err := variant.Load[V](conv, in)
			if err != nil {
				if e, ok := err.(*errors.Error); ok {
					return e.WithPath("value")
				}
				return err
			}
			return set(obj, v)
		}
	}
	return p
}

// ReadOnly builds a getter-only property.
func ReadOnly[T any, V variant.Value](name string, get func(*T) (V, error)) Property[T] {
	return Prop[T, V](name, get, nil)
}

// Registry is the frozen, ordered descriptor table of one class. Indices
// into Methods and Props are stable for the life of the process.
type Registry[T any] struct {
	name     string
	newFn    func() *T
	methods  []Method[T]
	props    []Property[T]
	slotProp int
	policy   ClearPolicy
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	slotName string
	policy   ClearPolicy
}

// WithLastError appends a read-only property named name that reports the
// instance's most recent failure, cleared according to policy.
func WithLastError(name string, policy ClearPolicy) RegistryOption {
	return func(c *registryConfig) {
		c.slotName = name
		c.policy = policy
	}
}

// NewRegistry validates and freezes a class description. Names must be
// non-empty and unique (case-insensitively) within methods and within
// properties.
func NewRegistry[T any](name string, newFn func() *T, methods []Method[T], props []Property[T], opts ...RegistryOption) (*Registry[T], error) {
	var cfg registryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validName(name); err != nil {
		return nil, errors.Registration(name, "", err.Error())
	}
	if strings.ContainsRune(name, '|') {
		return nil, errors.Registration(name, "", "class name must not contain '|'")
	}
	if newFn == nil {
		return nil, errors.Registration(name, "", "constructor is nil")
	}

	r := &Registry[T]{
		name:     name,
		newFn:    newFn,
		methods:  append([]Method[T](nil), methods...),
		props:    append([]Property[T](nil), props...),
		slotProp: -1,
		policy:   cfg.policy,
	}

	seen := make(map[string]bool, len(r.methods))
	for _, m := range r.methods {
		if err := validName(m.name); err != nil {
			return nil, errors.Registration(name, m.name, err.Error())
		}
		key := strings.ToLower(m.name)
		if seen[key] {
			return nil, errors.Registration(name, m.name, "duplicate method name")
		}
		seen[key] = true
		if m.invoke == nil {
			return nil, errors.Registration(name, m.name, "method has no implementation")
		}
		if len(m.params) > MaxArity {
			return nil, errors.Registration(name, m.name, "too many parameters")
		}
	}

	if cfg.slotName != "" {
		r.slotProp = len(r.props)
		r.props = append(r.props, Property[T]{
			name: cfg.slotName,
			tag:  variant.TagPWSTR,
			slot: true,
		})
	}

	clear(seen)
	for _, p := range r.props {
		if err := validName(p.name); err != nil {
			return nil, errors.Registration(name, p.name, err.Error())
		}
		key := strings.ToLower(p.name)
		if seen[key] {
			return nil, errors.Registration(name, p.name, "duplicate property name")
		}
		seen[key] = true
		if p.get == nil && p.set == nil && !p.slot {
			return nil, errors.Registration(name, p.name, "property has neither getter nor setter")
		}
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. It is meant for
// package-level class tables.
func MustRegistry[T any](name string, newFn func() *T, methods []Method[T], props []Property[T], opts ...RegistryOption) *Registry[T] {
	r, err := NewRegistry(name, newFn, methods, props, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func validName(name string) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegistry, "name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return errors.InvalidInput(errors.PhaseRegistry, "name is not valid UTF-8")
	}
	return nil
}

// Name returns the class name.
func (r *Registry[T]) Name() string { return r.name }

// NumMethods returns the number of methods.
func (r *Registry[T]) NumMethods() int { return len(r.methods) }

// Method returns the descriptor at index i.
func (r *Registry[T]) Method(i int) *Method[T] { return &r.methods[i] }

// NumProps returns the number of properties, including the error slot.
func (r *Registry[T]) NumProps() int { return len(r.props) }

// Prop returns the descriptor at index i.
func (r *Registry[T]) Prop(i int) *Property[T] { return &r.props[i] }

// HasErrorSlot reports whether instances carry an error slot.
func (r *Registry[T]) HasErrorSlot() bool { return r.slotProp >= 0 }

// FindMethod resolves a wide-character method name, ignoring case.
// It returns -1 when there is no such method.
func (r *Registry[T]) FindMethod(name []uint16) int {
	for i := range r.methods {
		if wide.EqualFold(name, r.methods[i].name) {
			return i
		}
	}
	return -1
}

// FindProp resolves a wide-character property name, ignoring case.
// It returns -1 when there is no such property.
func (r *Registry[T]) FindProp(name []uint16) int {
	for i := range r.props {
		if wide.EqualFold(name, r.props[i].name) {
			return i
		}
	}
	return -1
}

// New creates an instance backed by a fresh *T.
func (r *Registry[T]) New(opts ...InstanceOption) *Instance[T] {
	return newInstance(r, r.newFn(), opts...)
}

// NewObject implements Class.
func (r *Registry[T]) NewObject(opts ...InstanceOption) Object {
	return r.New(opts...)
}
