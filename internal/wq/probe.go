package wq

import (
	"strconv"
	"strings"
)

// SysfsRoot is the default DSA device tree; the sysfs prober keeps its own
// root field initialized from it.
const SysfsRoot = "/sys/bus/dsa/devices"

// Prober discovers and maps the WQs usable by this process.
type Prober interface {
	// Probe returns the usable WQs. If wqList is non-empty it names a
	// semicolon-separated explicit set of WQ device names (DTO_WQ_LIST);
	// otherwise Probe enumerates shared, user-type, enabled WQs on enabled
	// devices, at most one per device.
	Probe(wqList string) ([]*WorkQueue, error)
}

// UmwaitSupport reports whether the running CPU advertises WAITPKG
// (CPUID leaf 7, sub-leaf 0, ECX bit 5), the feature gating WaitUmwait.
func UmwaitSupport() bool { return umwaitSupported() }

// splitWQList parses a DTO_WQ_LIST value into individual device names,
// skipping blanks so a trailing or doubled semicolon is harmless.
func splitWQList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseSysfsUint trims the trailing newline sysfs attribute reads carry
// and parses the remainder, accepting both decimal and 0x-prefixed hex
// (gencap and max_transfer_size are exposed as hex by the DSA driver).
func parseSysfsUint(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	return strconv.ParseUint(s, base, 64)
}
