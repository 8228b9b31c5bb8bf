package variant

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/wide"
)

// Converter translates narrow (code page) strings. Wide strings are always
// UTF-16 and need no configuration.
type Converter struct {
	enc  encoding.Encoding // nil means UTF-8 passthrough
	name string
}

// UTF8 passes narrow strings through as UTF-8.
var UTF8 = &Converter{name: "utf-8"}

// NewConverter returns a converter for the named code page (WHATWG names such
// as "utf-8", "windows-1251", "ibm866"). An empty name selects UTF-8.
func NewConverter(codepage string) (*Converter, error) {
	if codepage == "" {
		return UTF8, nil
	}
	enc, err := htmlindex.Get(codepage)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncoding, errors.KindNotFound, err, "unknown code page "+codepage)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(codepage)
	}
	if name == "utf-8" {
		return UTF8, nil
	}
	return &Converter{enc: enc, name: name}, nil
}

// Name returns the canonical code page name.
func (c *Converter) Name() string {
	if c == nil {
		return UTF8.name
	}
	return c.name
}

// DecodeNarrow converts code page bytes to a Go string.
func (c *Converter) DecodeNarrow(b []byte) (string, error) {
	if c == nil || c.enc == nil {
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(errors.PhaseEncoding, errors.KindInvalidData, err, "decode "+c.name)
	}
	return string(out), nil
}

// EncodeNarrow converts a Go string to code page bytes. Runes the code page
// cannot represent are an error.
func (c *Converter) EncodeNarrow(s string) ([]byte, error) {
	if c == nil || c.enc == nil {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncoding, errors.KindInvalidData, err, "encode "+c.name)
	}
	return out, nil
}

// Text reads a PWSTR or PSTR cell as a Go string.
func (c *Converter) Text(cell *Cell) (string, error) {
	switch cell.tag {
	case TagPWSTR:
		return wide.Decode(cell.wide)
	case TagPSTR:
		return c.DecodeNarrow(cell.bytes)
	default:
		return "", cell.mismatch(TagPWSTR)
	}
}

func decodeForDisplay(units []uint16) string {
	return wide.DecodeLossy(units)
}
