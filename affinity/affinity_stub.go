//go:build !linux && !windows
// +build !linux,!windows

package affinity

import "github.com/intel/dto/api"

func pinCurrentThread(numaNode, cpuID int) error {
	return api.ErrNotSupported
}

func unpinCurrentThread() error {
	return api.ErrNotSupported
}
