package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseMarshal,
				Kind:     KindTypeMismatch,
				Path:     []string{"Utils", "Sleep", "arg0"},
				GoType:   "int32",
				HostType: "PWSTR",
				Detail:   "cannot convert",
			},
			contains: []string{"[marshal]", "type_mismatch", "Utils.Sleep.arg0", "int32", "PWSTR", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDispatch,
				Kind:  KindUnknownMethod,
			},
			contains: []string{"[dispatch]", "unknown_method"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseNative,
				Kind:   KindNativeFailure,
				Detail: "getwd",
				Cause:  errors.New("no such file or directory"),
			},
			contains: []string{"[native]", "native_failure", "getwd", "caused by", "no such file"},
		},
		{
			name:     "host type only",
			err:      TypeMismatch(PhaseMarshal, nil, "", "BLOB"),
			contains: []string{"host type BLOB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NativeFailure([]string{"Utils", "CurrentDir"}, cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause in chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDispatch,
		Kind:  KindArityMismatch,
		Path:  []string{"Utils", "Env"},
	}

	if !err.Is(&Error{Phase: PhaseDispatch, Kind: KindArityMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseMarshal, Kind: KindArityMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDispatch, Kind: KindUnknownMethod}) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("call failed: %w", err)
	if !errors.Is(wrapped, &Error{Phase: PhaseDispatch, Kind: KindArityMismatch}) {
		t.Error("errors.Is should match through wrapping")
	}
}

func TestHasKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Range(PhaseMarshal, nil, int64(1)<<40, "I4"))
	if !HasKind(err, KindRange) {
		t.Error("HasKind(range) = false")
	}
	if HasKind(err, KindTypeMismatch) {
		t.Error("HasKind(type_mismatch) = true")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf(plain) should be empty")
	}
}

func TestWithPath(t *testing.T) {
	base := TypeMismatch(PhaseMarshal, []string{"arg1"}, "string", "I4")
	got := base.WithPath("Utils", "SetEnv")

	if strings.Join(got.Path, ".") != "Utils.SetEnv.arg1" {
		t.Errorf("Path = %v", got.Path)
	}
	if len(base.Path) != 1 {
		t.Error("WithPath must not modify the receiver")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseMarshal, KindTypeMismatch).
		Path("Utils", "Env").
		GoType("string").
		HostType("I4").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "PWSTR", "I4").
		Build()

	if err.Phase != PhaseMarshal {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseMarshal)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if err.Detail != "expected PWSTR, got I4" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{UnknownMethod([]string{"Utils"}, 9, 9), KindUnknownMethod},
		{UnknownProperty([]string{"Utils"}, 3, 1), KindUnknownProperty},
		{ArityMismatch([]string{"Utils", "Env"}, 1, 0), KindArityMismatch},
		{ReadOnlyProperty([]string{"Utils", "LastError"}), KindReadOnlyProperty},
		{NotReadable([]string{"X", "Sink"}), KindNotReadable},
		{InvalidUTF16(PhaseEncoding, nil, 3, 0xD800), KindInvalidUTF16},
		{AlreadyWritten(PhaseMarshal, nil, "I4"), KindAlreadyWritten},
		{Panic([]string{"Utils", "Pid"}, "boom"), KindNativeFailure},
		{Registration("Utils", "", "duplicate"), KindRegistration},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}
}
