package addin

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/variant"
	"github.com/wippyai/native-addin/wide"
)

// Library is the set of classes a component exports to the host, in the
// order the host lists them.
type Library struct {
	conv    *variant.Converter
	logger  *zap.Logger
	classes []Class
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithCodePage sets the narrow string converter for all instances.
func WithCodePage(conv *variant.Converter) LibraryOption {
	return func(l *Library) { l.conv = conv }
}

// WithLogger sets the logger handed to instances.
func WithLogger(log *zap.Logger) LibraryOption {
	return func(l *Library) { l.logger = log }
}

// NewLibrary returns a library over classes. Class names must be unique,
// ignoring case.
func NewLibrary(classes []Class, opts ...LibraryOption) (*Library, error) {
	l := &Library{conv: variant.UTF8}
	for _, opt := range opts {
		opt(l)
	}
	if l.conv == nil {
		l.conv = variant.UTF8
	}

	seen := make(map[string]bool, len(classes))
	for _, c := range classes {
		if c == nil {
			return nil, errors.InvalidInput(errors.PhaseLoad, "nil class")
		}
		key := strings.ToLower(c.Name())
		if seen[key] {
			return nil, errors.Registration(c.Name(), "", "duplicate class name")
		}
		seen[key] = true
	}
	l.classes = append([]Class(nil), classes...)
	return l, nil
}

// Classes returns the registered classes in order.
func (l *Library) Classes() []Class { return l.classes }

// Converter returns the narrow string converter shared by instances.
func (l *Library) Converter() *variant.Converter { return l.conv }

// ClassNames returns the class list in the host's "A|B" form.
func (l *Library) ClassNames() string {
	names := make([]string, len(l.classes))
	for i, c := range l.classes {
		names[i] = c.Name()
	}
	return strings.Join(names, "|")
}

// Create builds a fresh instance of the named class, ignoring case.
func (l *Library) Create(name string) (Object, error) {
	for _, c := range l.classes {
		if strings.EqualFold(c.Name(), name) {
			return l.newObject(c), nil
		}
	}
	return nil, errors.NotFound(errors.PhaseLoad, "class", name)
}

// CreateWide is Create for a wide-character class name.
func (l *Library) CreateWide(name []uint16) (Object, error) {
	for _, c := range l.classes {
		if wide.EqualFold(name, c.Name()) {
			return l.newObject(c), nil
		}
	}
	return nil, errors.NotFound(errors.PhaseLoad, "class", wide.DecodeLossy(name))
}

func (l *Library) newObject(c Class) Object {
	opts := []InstanceOption{WithConverter(l.conv)}
	if l.logger != nil {
		opts = append(opts, WithInstanceLogger(l.logger))
	}
	Logger().Debug("creating instance", zap.String("class", c.Name()))
	return c.NewObject(opts...)
}
