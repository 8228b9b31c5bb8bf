package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/wippyai/native-addin/addin"
	"github.com/wippyai/native-addin/errors"
	"github.com/wippyai/native-addin/variant"
	"github.com/wippyai/native-addin/wide"
)

// ClassName is the name the host creates instances by.
const ClassName = "Utils"

// Utils implements the class methods over an Environment and two output
// streams.
type Utils struct {
	env    Environment
	stdout io.Writer
	stderr io.Writer
	sleep  func(time.Duration)
}

// Option configures Utils instances.
type Option func(*Utils)

// WithEnvironment replaces the process environment.
func WithEnvironment(env Environment) Option {
	return func(u *Utils) { u.env = env }
}

// WithStdout replaces standard output.
func WithStdout(w io.Writer) Option {
	return func(u *Utils) { u.stdout = w }
}

// WithStderr replaces standard error.
func WithStderr(w io.Writer) Option {
	return func(u *Utils) { u.stderr = w }
}

// WithSleep replaces the function used to block in Sleep.
func WithSleep(fn func(time.Duration)) Option {
	return func(u *Utils) { u.sleep = fn }
}

// New returns Utils bound to the real process.
func New(opts ...Option) *Utils {
	u := &Utils{
		env:    OS{},
		stdout: os.Stdout,
		stderr: os.Stderr,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Utils) Pid() (int, error) {
	return u.env.Getpid(), nil
}

// Env returns the variable's value, or an empty cell when it is unset.
func (u *Utils) Env(name string) (variant.Cell, error) {
	v, ok := u.env.Lookup(name)
	if !ok {
		return variant.Empty(), nil
	}
	return variant.Wide(wide.Encode(v)), nil
}

func (u *Utils) Envs() (string, error) {
	var b strings.Builder
	for _, kv := range u.env.Environ() {
		b.WriteString(kv)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (u *Utils) CurrentDir() (string, error) {
	return u.env.Getwd()
}

func (u *Utils) CurrentExe() (string, error) {
	return u.env.Executable()
}

func (u *Utils) Print(p []byte) error {
	_, err := u.stdout.Write(p)
	return err
}

func (u *Utils) EPrint(p []byte) error {
	_, err := u.stderr.Write(p)
	return err
}

func (u *Utils) Sleep(ms int32) error {
	if ms < 0 {
		return errors.Range(errors.PhaseNative, nil, ms, "non-negative milliseconds")
	}
	if ms > 0 {
		u.sleep(time.Duration(ms) * time.Millisecond)
	}
	return nil
}

func (u *Utils) SetEnv(name, value string) error {
	return u.env.Set(name, value)
}

// NewClass returns a Utils registry whose instances are built with opts.
func NewClass(opts ...Option) *addin.Registry[Utils] {
	return addin.MustRegistry(ClassName,
		func() *Utils { return New(opts...) },
		[]addin.Method[Utils]{
			addin.Func0("Pid", (*Utils).Pid),
			addin.Func1("Env", (*Utils).Env),
			addin.Func0("Envs", (*Utils).Envs),
			addin.Func0("CurrentDir", (*Utils).CurrentDir),
			addin.Func0("CurrentExe", (*Utils).CurrentExe),
			addin.Proc1("Print", (*Utils).Print),
			addin.Proc1("EPrint", (*Utils).EPrint),
			addin.Proc1("Sleep", (*Utils).Sleep),
			addin.Proc2("SetEnv", (*Utils).SetEnv),
		},
		nil,
		addin.WithLastError(addin.DefaultErrorProperty, addin.ClearOnSuccess),
	)
}

// Class is the Utils registry bound to the real process.
var Class = NewClass()
