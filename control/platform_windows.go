//go:build windows
// +build windows

package control

import "runtime"

// RegisterPlatformProbes sets Windows-specific debug probes. DSA hardware
// itself is linux+amd64 only, so on Windows the library always runs
// CPU-only; this probe exists for operational parity with the Linux build.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
