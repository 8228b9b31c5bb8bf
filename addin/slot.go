package addin

// ClearPolicy decides what a successful call does to the error slot.
type ClearPolicy int

const (
	// ClearOnSuccess empties the slot after every successful call, so
	// LastError always describes the most recent call.
	ClearOnSuccess ClearPolicy = iota

	// KeepUntilFailure leaves the slot untouched on success; LastError
	// describes the most recent failure until the next one replaces it.
	KeepUntilFailure
)

func (p ClearPolicy) String() string {
	switch p {
	case ClearOnSuccess:
		return "clear-on-success"
	case KeepUntilFailure:
		return "keep-until-failure"
	default:
		return "unknown"
	}
}

// ErrorSlot holds the most recent failure of one instance.
type ErrorSlot struct {
	err    error
	policy ClearPolicy
}

// NewErrorSlot returns an empty slot with the given policy.
func NewErrorSlot(policy ClearPolicy) *ErrorSlot {
	return &ErrorSlot{policy: policy}
}

// Record stores err, replacing any previous error.
func (s *ErrorSlot) Record(err error) {
	s.err = err
}

// Clear empties the slot.
func (s *ErrorSlot) Clear() {
	s.err = nil
}

// Succeeded applies the slot's policy after a successful call.
func (s *ErrorSlot) Succeeded() {
	if s.policy == ClearOnSuccess {
		s.err = nil
	}
}

// Policy returns the slot's clear policy.
func (s *ErrorSlot) Policy() ClearPolicy { return s.policy }

// Err returns the stored error, or nil.
func (s *ErrorSlot) Err() error { return s.err }

// Text renders the stored error as host text, or "" when empty.
func (s *ErrorSlot) Text() string {
	if s.err == nil {
		return ""
	}
	return s.err.Error()
}
