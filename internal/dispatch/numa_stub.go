//go:build !(linux && amd64)
// +build !linux !amd64

package dispatch

import "unsafe"

func bufferNUMANode(buf unsafe.Pointer) (int, bool) { return 0, false }

func currentCPUNUMANode() (int, bool) { return 0, false }

func currentCPU() (int, bool) { return 0, false }
