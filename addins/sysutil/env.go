package sysutil

import (
	"os"
	"strings"
	"sync"
)

// Environment is the process state Utils reads and writes.
type Environment interface {
	Getpid() int
	Lookup(name string) (string, bool)
	Set(name, value string) error
	Environ() []string
	Getwd() (string, error)
	Executable() (string, error)
}

// OS is the real process environment.
type OS struct{}

func (OS) Getpid() int                       { return os.Getpid() }
func (OS) Lookup(name string) (string, bool) { return os.LookupEnv(name) }
func (OS) Set(name, value string) error      { return os.Setenv(name, value) }
func (OS) Environ() []string                 { return os.Environ() }
func (OS) Getwd() (string, error)            { return os.Getwd() }
func (OS) Executable() (string, error)       { return os.Executable() }

// MapEnvironment is an in-memory Environment, mainly for tests and
// sandboxed hosts.
type MapEnvironment struct {
	vars map[string]string
	keys []string
	cwd  string
	exe  string
	pid  int
	mu   sync.Mutex
}

// NewMapEnvironment returns an environment holding the "name=value" pairs
// in environ.
func NewMapEnvironment(pid int, cwd, exe string, environ ...string) *MapEnvironment {
	m := &MapEnvironment{
		vars: make(map[string]string, len(environ)),
		cwd:  cwd,
		exe:  exe,
		pid:  pid,
	}
	for _, kv := range environ {
		name, value, _ := strings.Cut(kv, "=")
		_ = m.Set(name, value)
	}
	return m
}

func (m *MapEnvironment) Getpid() int { return m.pid }

func (m *MapEnvironment) Lookup(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[name]
	return v, ok
}

func (m *MapEnvironment) Set(name, value string) error {
	if name == "" || strings.ContainsAny(name, "=\x00") {
		return &os.SyscallError{Syscall: "setenv", Err: os.ErrInvalid}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vars[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.vars[name] = value
	return nil
}

// Environ returns variables in insertion order.
func (m *MapEnvironment) Environ() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k+"="+m.vars[k])
	}
	return out
}

func (m *MapEnvironment) Getwd() (string, error)      { return m.cwd, nil }
func (m *MapEnvironment) Executable() (string, error) { return m.exe, nil }
