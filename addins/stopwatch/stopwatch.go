package stopwatch

import (
	"time"

	"github.com/wippyai/native-addin/addin"
)

// ClassName is the name the host creates instances by.
const ClassName = "Instant"

// Stopwatch measures time since its last Start.
type Stopwatch struct {
	now   func() time.Time
	start time.Time
}

// New returns a stopwatch started at the current instant.
func New() *Stopwatch {
	return NewWithClock(time.Now)
}

// NewWithClock returns a stopwatch reading time from now. The clock must
// be monotonic.
func NewWithClock(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now, start: now()}
}

// Start resets the start instant.
func (s *Stopwatch) Start() error {
	s.start = s.now()
	return nil
}

// Elapsed returns microseconds since the start instant.
func (s *Stopwatch) Elapsed() (float64, error) {
	d := s.now().Sub(s.start)
	return float64(d.Nanoseconds()) / 1000, nil
}

// Class is the registry of the Instant class.
var Class = addin.MustRegistry(ClassName, New,
	[]addin.Method[Stopwatch]{
		addin.Proc0("Start", (*Stopwatch).Start),
		addin.Func0("Elapsed", (*Stopwatch).Elapsed),
	},
	nil,
)
