package wq

import "testing"

func TestSplitWQList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"wq0.0", []string{"wq0.0"}},
		{"wq0.0;wq0.1", []string{"wq0.0", "wq0.1"}},
		{"wq0.0; ;wq0.1;", []string{"wq0.0", "wq0.1"}},
	}
	for _, c := range cases {
		got := splitWQList(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("splitWQList(%q) = %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("splitWQList(%q) = %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestParseSysfsUint(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"1024\n", 1024},
		{"0x4\n", 4},
		{"  42  ", 42},
	}
	for _, c := range cases {
		got, err := parseSysfsUint(c.in)
		if err != nil {
			t.Fatalf("parseSysfsUint(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("parseSysfsUint(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDeviceName(t *testing.T) {
	cases := map[string]string{
		"wq0.0": "dsa0",
		"wq3.1": "dsa3",
		"bare":  "bare",
	}
	for in, want := range cases {
		if got := deviceName(in); got != want {
			t.Fatalf("deviceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistryDedupsByDevice(t *testing.T) {
	wqs := []*WorkQueue{
		{Path: "wq0.0", NumaNode: 0},
		{Path: "wq0.1", NumaNode: 0},
		{Path: "wq1.0", NumaNode: 1},
	}
	r := NewRegistry(wqs, false)
	if r.Len() != 2 {
		t.Fatalf("expected registry to cap at one WQ per device, got %d WQs", r.Len())
	}
}

func TestRegistryForwardFill(t *testing.T) {
	wqs := []*WorkQueue{
		{Path: "wq0.0", NumaNode: 0},
		{Path: "wq2.0", NumaNode: 2},
	}
	r := NewRegistry(wqs, true)

	for node := 0; node < 2; node++ {
		g := r.Group(node)
		if g == nil || g.Len() != 1 {
			t.Fatalf("node %d: expected forward-filled group of 1, got %v", node, g)
		}
	}
	g := r.Group(2)
	if g == nil || g.Len() != 1 {
		t.Fatalf("node 2: expected group of 1, got %v", g)
	}
	if r.Group(31) == nil {
		t.Fatalf("node 31: expected forward-filled group, got nil")
	}
}

func TestRegistryGlobalRoundRobin(t *testing.T) {
	wqs := []*WorkQueue{{Path: "a"}, {Path: "b"}, {Path: "c"}}
	r := NewRegistry(wqs, false)

	seen := map[string]int{}
	for i := 0; i < 9; i++ {
		seen[r.Global().Path]++
	}
	for _, name := range []string{"a", "b", "c"} {
		if seen[name] != 3 {
			t.Fatalf("expected round-robin to hit %q 3 times, got %d", name, seen[name])
		}
	}
}

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry(nil, true)
	if r.Global() != nil {
		t.Fatalf("expected nil from empty registry")
	}
	if g := r.Group(0); g != nil && g.Next() != nil {
		t.Fatalf("expected nil from empty group")
	}
}

func TestCacheControlCapable(t *testing.T) {
	w := &WorkQueue{GenCap: GenCapCacheControl | 0x1}
	if !w.CacheControlCapable() {
		t.Fatalf("expected cache-control capable")
	}
	w2 := &WorkQueue{GenCap: 0x1}
	if w2.CacheControlCapable() {
		t.Fatalf("expected not cache-control capable")
	}
}
