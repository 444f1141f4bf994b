//go:build linux && amd64
// +build linux,amd64

// Sysfs-based WQ discovery for the DSA driver and CPUID-based WAITPKG
// detection. Grounded on the teacher's transport_linux_uring.go (raw
// mmap of a kernel-exposed ring via golang.org/x/sys/unix) and
// affinity_linux.go (cgo wrapping a single leaf instruction).
package wq

/*
#include <stdint.h>

// Leaf 7, sub-leaf 0, ECX bit 5 is WAITPKG (UMONITOR/UMWAIT/TPAUSE).
static int go_has_waitpkg(void) {
	uint32_t eax = 7, ebx = 0, ecx = 0, edx = 0;
	__asm__ volatile("cpuid"
		: "+a"(eax), "=b"(ebx), "+c"(ecx), "=d"(edx));
	return (ecx >> 5) & 1;
}
*/
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

func umwaitSupported() bool {
	return C.go_has_waitpkg() != 0
}

type sysfsProber struct {
	root    string
	devNode string // /dev/dsa, overridable for tests
}

// NewSysfsProber returns the Linux sysfs-backed Prober used in production.
func NewSysfsProber() Prober {
	return &sysfsProber{root: SysfsRoot, devNode: "/dev/dsa"}
}

func (p *sysfsProber) Probe(wqList string) ([]*WorkQueue, error) {
	names := splitWQList(wqList)
	if len(names) == 0 {
		var err error
		names, err = p.enumerate()
		if err != nil {
			return nil, err
		}
	}

	out := make([]*WorkQueue, 0, len(names))
	for _, name := range names {
		w, err := p.probeOne(name)
		if err != nil {
			continue // skip unusable WQs; caller decides if the total is sufficient
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("wq: %w", errNoWQs)
	}
	return out, nil
}

var errNoWQs = fmt.Errorf("no usable shared work queues found under %s", SysfsRoot)

// enumerate walks the DSA sysfs tree for shared (mode "shared"),
// user-accessible (type "user"), enabled WQs whose parent device is
// itself enabled, capping selection to at most one WQ per device —
// mirroring dsa_init_from_wq_list's directory scan and
// dsa_init_from_accfg's accfg_wq_get_type/ACCFG_DEVICE_ENABLED/
// used_devids predicates in the original.
func (p *sysfsProber) enumerate() ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil, fmt.Errorf("wq: read %s: %w", p.root, err)
	}
	var names []string
	usedDevices := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "wq") {
			continue
		}
		device := deviceName(name)
		if usedDevices[device] {
			continue
		}
		mode, err := os.ReadFile(filepath.Join(p.root, name, "mode"))
		if err != nil || strings.TrimSpace(string(mode)) != "shared" {
			continue
		}
		wqType, err := os.ReadFile(filepath.Join(p.root, name, "type"))
		if err != nil || strings.TrimSpace(string(wqType)) != "user" {
			continue
		}
		state, err := os.ReadFile(filepath.Join(p.root, name, "state"))
		if err != nil || strings.TrimSpace(string(state)) != "enabled" {
			continue
		}
		devState, err := os.ReadFile(filepath.Join(p.root, device, "state"))
		if err != nil || strings.TrimSpace(string(devState)) != "enabled" {
			continue
		}
		names = append(names, name)
		usedDevices[device] = true
	}
	return names, nil
}

func (p *sysfsProber) probeOne(name string) (*WorkQueue, error) {
	dir := filepath.Join(p.root, name)

	size, err := readUintAttr(filepath.Join(dir, "size"))
	if err != nil {
		return nil, err
	}
	maxXfer, err := readUintAttr(filepath.Join(dir, "max_transfer_size"))
	if err != nil {
		return nil, err
	}

	engine := deviceName(name)
	gencap, err := readUintAttr(filepath.Join(p.root, engine, "gen_cap"))
	if err != nil {
		gencap = 0
	}
	numaNode, err := readIntAttr(filepath.Join(p.root, engine, "numa_node"))
	if err != nil || numaNode < 0 {
		numaNode = 0
	}

	fd, err := unix.Open(filepath.Join(p.devNode, name), unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("wq: open %s: %w", name, err)
	}
	defer unix.Close(fd)

	portal, err := unix.Mmap(fd, 0, PortalSize, unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return nil, fmt.Errorf("wq: mmap %s: %w", name, err)
	}

	return &WorkQueue{
		Path:            name,
		GenCap:          gencap,
		Size:            int(size),
		MaxTransferSize: uint32(maxXfer),
		NumaNode:        numaNode,
		Portal:          portal,
	}, nil
}

func readUintAttr(path string) (uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("wq: read %s: %w", path, err)
	}
	return parseSysfsUint(string(raw))
}

func readIntAttr(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("wq: read %s: %w", path, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("wq: parse %s: %w", path, err)
	}
	return n, nil
}

// UnmapPortal releases a WQ's MMIO mapping.
func UnmapPortal(b []byte) error {
	if b == nil {
		return nil
	}
	return unix.Munmap(b)
}
