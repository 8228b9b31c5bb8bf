package addin

import (
	"github.com/wippyai/native-addin/variant"
	"github.com/wippyai/native-addin/wide"
)

// Object is the host-facing surface of a component instance. Every call
// reports success as a bool; details of a failure are available afterwards
// through the error slot property, when the class has one.
type Object interface {
	ClassName() string

	NumMethods() int
	FindMethod(name []uint16) int
	MethodName(i int) string
	NumParams(i int) int
	ParamTag(i, param int) variant.Tag
	HasResult(i int) bool
	ResultTag(i int) variant.Tag
	CallAsProc(i int, args []variant.Cell) bool
	CallAsFunc(i int, out *variant.Cell, args []variant.Cell) bool

	NumProps() int
	FindProp(name []uint16) int
	PropName(i int) string
	PropTag(i int) variant.Tag
	IsPropReadable(i int) bool
	IsPropWritable(i int) bool
	GetProp(i int, out *variant.Cell) bool
	SetProp(i int, v *variant.Cell) bool

	Fail(member string, err error) bool
	Drop()

	Err() error
	LastError() string
}

// Class creates instances of one registered component kind.
type Class interface {
	Name() string
	NewObject(opts ...InstanceOption) Object
}

var _ Class = (*Registry[struct{}])(nil)

func encodeText(s string) []uint16 {
	if s == "" {
		return []uint16{}
	}
	return wide.Encode(s)
}

// FindMethodName resolves a Go string method name on obj.
func FindMethodName(obj Object, name string) int {
	var buf wide.Buffer
	defer buf.Release()
	return obj.FindMethod(buf.Encode(name))
}

// FindPropName resolves a Go string property name on obj.
func FindPropName(obj Object, name string) int {
	var buf wide.Buffer
	defer buf.Release()
	return obj.FindProp(buf.Encode(name))
}
