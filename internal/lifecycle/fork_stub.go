//go:build !linux
// +build !linux

// A raw fork() without exec is not a supported Go runtime operation
// outside cgo to begin with, so platforms without the pthread_atfork
// trampoline simply never run the reinitialization hook; a caller that
// manages to fork via cgo elsewhere in the process degrades to CPU-only
// in the child instead of crashing (spec §4.H, §9).
package lifecycle

func registerForkHook(l *Lifecycle) {}
