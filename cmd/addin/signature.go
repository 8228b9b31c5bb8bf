package main

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/native-addin/addin"
	"github.com/wippyai/native-addin/variant"
	"github.com/wippyai/native-addin/wide"
)

// witType maps a cell tag to the WIT type used to display it. TagAny and
// TagEmpty have no WIT counterpart and map to nil.
func witType(tag variant.Tag) wit.Type {
	switch tag {
	case variant.TagBool:
		return wit.Bool{}
	case variant.TagI4:
		return wit.S32{}
	case variant.TagR8:
		return wit.F64{}
	case variant.TagDate:
		return wit.S64{}
	case variant.TagPWSTR, variant.TagPSTR:
		return wit.String{}
	case variant.TagBlob:
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	default:
		return nil
	}
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "any"
	case wit.Bool:
		return "bool"
	case wit.S32:
		return "s32"
	case wit.S64:
		return "s64"
	case wit.F64:
		return "f64"
	case wit.U8:
		return "u8"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		if l, ok := v.Kind.(*wit.List); ok {
			return "list<" + witTypeStr(l.Type) + ">"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func tagStr(tag variant.Tag) string {
	if tag == variant.TagDate {
		return "datetime"
	}
	return witTypeStr(witType(tag))
}

type memberInfo struct {
	name   string
	params []variant.Tag
	result variant.Tag
	index  int
	isProp bool
	hasRet bool
	read   bool
	write  bool
}

func methods(obj addin.Object) []memberInfo {
	out := make([]memberInfo, obj.NumMethods())
	for i := range out {
		m := memberInfo{
			name:   obj.MethodName(i),
			index:  i,
			hasRet: obj.HasResult(i),
			result: obj.ResultTag(i),
		}
		for p := 0; p < obj.NumParams(i); p++ {
			m.params = append(m.params, obj.ParamTag(i, p))
		}
		out[i] = m
	}
	return out
}

func props(obj addin.Object) []memberInfo {
	out := make([]memberInfo, obj.NumProps())
	for i := range out {
		out[i] = memberInfo{
			name:   obj.PropName(i),
			index:  i,
			isProp: true,
			result: obj.PropTag(i),
			read:   obj.IsPropReadable(i),
			write:  obj.IsPropWritable(i),
		}
	}
	return out
}

func (m memberInfo) signature() string {
	if m.isProp {
		access := "get"
		switch {
		case m.read && m.write:
			access = "get/set"
		case m.write:
			access = "set"
		}
		return fmt.Sprintf("%s: %s [%s]", m.name, tagStr(m.result), access)
	}
	params := make([]string, len(m.params))
	for i, p := range m.params {
		params[i] = fmt.Sprintf("arg%d: %s", i, tagStr(p))
	}
	sig := m.name + "(" + strings.Join(params, ", ") + ")"
	if m.hasRet {
		sig += " -> " + tagStr(m.result)
	}
	return sig
}

const base64Prefix = "base64:"

// parseArg converts command-line text into a cell of the given tag. Blobs take
// the raw text bytes unless prefixed with "base64:". Dates are RFC 3339 and ANY
// slots take the text as a wide string.
func parseArg(value string, tag variant.Tag, conv *variant.Converter) (variant.Cell, error) {
	switch tag {
	case variant.TagBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return variant.Cell{}, fmt.Errorf("invalid bool %q", value)
		}
		return variant.Bool(b), nil
	case variant.TagI4:
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return variant.Cell{}, fmt.Errorf("invalid s32 %q: %w", value, err)
		}
		return variant.Int32(int32(n)), nil
	case variant.TagR8:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return variant.Cell{}, fmt.Errorf("invalid f64 %q: %w", value, err)
		}
		return variant.Float64(f), nil
	case variant.TagDate:
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return variant.Cell{}, fmt.Errorf("invalid datetime %q: %w", value, err)
		}
		return variant.Date(t), nil
	case variant.TagPSTR:
		b, err := conv.EncodeNarrow(value)
		if err != nil {
			return variant.Cell{}, err
		}
		return variant.NarrowBytes(b), nil
	case variant.TagBlob:
		enc, ok := strings.CutPrefix(value, base64Prefix)
		if !ok {
			return variant.Blob([]byte(value)), nil
		}
		b, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return variant.Cell{}, fmt.Errorf("invalid base64 blob: %w", err)
		}
		return variant.Blob(b), nil
	default:
		return variant.Wide(wide.Encode(value)), nil
	}
}

// formatCell renders a result for the terminal.
func formatCell(c variant.Cell, conv *variant.Converter) string {
	switch c.Tag() {
	case variant.TagPWSTR, variant.TagPSTR:
		s, err := conv.Text(&c)
		if err != nil {
			return c.String()
		}
		return strconv.Quote(s)
	case variant.TagBlob:
		b, _ := c.Blob()
		return base64.StdEncoding.EncodeToString(b)
	default:
		return c.String()
	}
}

// invoke calls method idx with textual arguments and returns the result.
func invoke(obj addin.Object, idx int, args []string, conv *variant.Converter) (variant.Cell, error) {
	cells := make([]variant.Cell, len(args))
	for i, a := range args {
		c, err := parseArg(a, obj.ParamTag(idx, i), conv)
		if err != nil {
			return variant.Cell{}, fmt.Errorf("argument %d: %w", i, err)
		}
		cells[i] = c
	}

	var out variant.Cell
	if !obj.CallAsFunc(idx, &out, cells) {
		return variant.Cell{}, callError(obj)
	}
	return out, nil
}

// readProp reads property idx.
func readProp(obj addin.Object, idx int) (variant.Cell, error) {
	var out variant.Cell
	if !obj.GetProp(idx, &out) {
		return variant.Cell{}, callError(obj)
	}
	return out, nil
}

func callError(obj addin.Object) error {
	if err := obj.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%s: call failed", obj.ClassName())
}
