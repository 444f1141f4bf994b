// Command dtoshim is the literal C-ABI shadow for memset/memcpy/memmove/
// memcmp described in spec.md §1 and §4.I. Built with -buildmode=c-shared
// and loaded via LD_PRELOAD, it exports the four libc symbols with their
// exact signatures and delegates every call to the facade package, which
// drives the splitter or the CPU fallback depending on lifecycle state.
//
// Grounded on the original's constructor-installed shadow functions
// (_examples/original_source/dto.c: memset/memcpy/memmove/memcmp at the
// bottom of the file, each a thin wrapper around dto_memset/
// dto_memcpymove/dto_memcmp).
package main

/*
#include <stddef.h>
*/
import "C"

import (
	"unsafe"

	"github.com/intel/dto/facade"
)

//export memset
func memset(s unsafe.Pointer, c C.int, n C.size_t) unsafe.Pointer {
	if n == 0 {
		return s
	}
	dst := unsafe.Slice((*byte)(s), int(n))
	facade.Fill(dst, byte(c))
	return s
}

//export memcpy
func memcpy(dest, src unsafe.Pointer, n C.size_t) unsafe.Pointer {
	if n == 0 {
		return dest
	}
	dst := unsafe.Slice((*byte)(dest), int(n))
	s := unsafe.Slice((*byte)(src), int(n))
	facade.Copy(dst, s)
	return dest
}

//export memmove
func memmove(dest, src unsafe.Pointer, n C.size_t) unsafe.Pointer {
	if n == 0 {
		return dest
	}
	dst := unsafe.Slice((*byte)(dest), int(n))
	s := unsafe.Slice((*byte)(src), int(n))
	facade.Move(dst, s)
	return dest
}

//export memcmp
func memcmp(s1, s2 unsafe.Pointer, n C.size_t) C.int {
	if n == 0 {
		return 0
	}
	a := unsafe.Slice((*byte)(s1), int(n))
	b := unsafe.Slice((*byte)(s2), int(n))
	return C.int(facade.Compare(a, b))
}

// main is required by -buildmode=c-shared but is never executed; the
// shared object is loaded into a host process via LD_PRELOAD, which only
// ever calls the exported symbols above.
func main() {}
