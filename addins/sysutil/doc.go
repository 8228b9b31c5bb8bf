// Package sysutil provides the "Utils" class: process and environment
// helpers exposed to the host.
//
// Methods, in host index order:
//
//	0 Pid() -> I4
//	1 Env(name) -> PWSTR, or EMPTY when the variable is unset
//	2 Envs() -> PWSTR, one "name=value\n" line per variable
//	3 CurrentDir() -> PWSTR
//	4 CurrentExe() -> PWSTR
//	5 Print(text)        UTF-8 bytes to standard output, no framing
//	6 EPrint(text)       UTF-8 bytes to standard error, no framing
//	7 Sleep(ms)          negative durations fail with a range error
//	8 SetEnv(name, value)
//
// Property 0 is LastError. It is cleared by every successful call.
package sysutil
