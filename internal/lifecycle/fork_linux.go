//go:build linux
// +build linux

// pthread_atfork-based child reinitialization. A C trampoline installed
// once via pthread_atfork calls back into an //export'ed Go function,
// which runs every registered control.ForkHooks callback — this is how a
// raw fork() (outside the Go runtime's os.StartProcess/exec path) gets a
// chance to remap WQ portals and reset stats in the child, matching the
// original's pthread_atfork child handler
// (_examples/original_source/dto.c).
package lifecycle

/*
#include <pthread.h>

extern void dtoAtForkChild(void);

static void go_register_atfork(void) {
	pthread_atfork(NULL, NULL, dtoAtForkChild);
}
*/
import "C"

var atForkTarget *Lifecycle

func registerForkHook(l *Lifecycle) {
	atForkTarget = l
	C.go_register_atfork()
}

//export dtoAtForkChild
func dtoAtForkChild() {
	if atForkTarget != nil {
		atForkTarget.ForkHooks.RunAll()
	}
}
