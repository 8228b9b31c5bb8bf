package variant

// Tag is the cell discriminant. Values follow the host's type numbering so
// they can cross the boundary unchanged.
type Tag uint16

const (
	TagEmpty Tag = 0
	TagI4    Tag = 3
	TagR8    Tag = 5
	TagDate  Tag = 7
	TagPSTR  Tag = 8
	TagBool  Tag = 11
	TagPWSTR Tag = 22
	TagBlob  Tag = 23

	// TagAny marks descriptor slots that accept or produce any cell. It is
	// never stored in a cell.
	TagAny Tag = 0xFFFF
)

// Valid reports whether t may appear in a cell.
func (t Tag) Valid() bool {
	switch t {
	case TagEmpty, TagI4, TagR8, TagDate, TagPSTR, TagBool, TagPWSTR, TagBlob:
		return true
	}
	return false
}

func (t Tag) String() string {
	switch t {
	case TagEmpty:
		return "EMPTY"
	case TagI4:
		return "I4"
	case TagR8:
		return "R8"
	case TagDate:
		return "TM"
	case TagPSTR:
		return "PSTR"
	case TagBool:
		return "BOOL"
	case TagPWSTR:
		return "PWSTR"
	case TagBlob:
		return "BLOB"
	case TagAny:
		return "ANY"
	default:
		return "UNKNOWN"
	}
}
