// Package lifecycle implements the process-wide NotStarted/InProgress/
// Ready handshake (spec §4.H) and owns every other piece of process-wide
// state the library needs: the loaded config, the WQ registry, the
// selector/engine/tuner/splitter, and the ambient control-plane objects
// (logger, config snapshot, debug probes, fork hooks, stat histogram).
//
// Grounded on the teacher's facade.HioloadWS constructor (one-call setup
// wiring every subsystem together) and the original's dto_init/DTO_STATE
// three-flag handshake (_examples/original_source/dto.c).
package lifecycle

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/intel/dto/api"
	"github.com/intel/dto/control"
	"github.com/intel/dto/internal/dispatch"
	"github.com/intel/dto/internal/split"
	"github.com/intel/dto/internal/tuner"
	"github.com/intel/dto/internal/wq"
)

// State mirrors the original's init_state values exactly.
type State int32

const (
	NotStarted State = iota
	InProgress
	Ready
)

// eventRingCapacity bounds how many recent submission outcomes
// control.DebugProbes retains for inspection (spec §6 "Debug/introspection").
const eventRingCapacity = 256

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Lifecycle is the process-wide singleton driving setup, fork
// reinitialization, and teardown.
type Lifecycle struct {
	state      atomic.Int32
	useCPUOnly atomic.Bool
	setupOnce  sync.Once // guards construction of the ambient control objects, which must survive across re-Start calls in the child

	mu       sync.RWMutex
	cfg      api.Config
	registry *wq.Registry
	splitter *split.Splitter

	Logger      *control.Logger
	ConfigStore *control.ConfigStore
	Debug       *control.DebugProbes
	ForkHooks   *control.ForkHooks
	Stats       *control.Histogram
	Events      *control.EventRing

	prober wq.Prober // overridable for tests
}

var global = newLifecycle()

func newLifecycle() *Lifecycle {
	return &Lifecycle{prober: wq.NewSysfsProber()}
}

// Global returns the process-wide Lifecycle singleton.
func Global() *Lifecycle { return global }

// State reports the current handshake state.
func (l *Lifecycle) State() State { return State(l.state.Load()) }

// Ready reports whether setup has completed and offload may be attempted.
func (l *Lifecycle) Ready() bool { return l.State() == Ready }

// UseCPUOnly reports whether setup ran but found no usable WQ, or ran with
// DTO_USESTDC_CALLS set.
func (l *Lifecycle) UseCPUOnly() bool { return l.useCPUOnly.Load() }

// Splitter returns the configured Splitter once Ready, or nil when setup
// has not run or chose the CPU-only path. Callers must still check
// Ready()/UseCPUOnly() themselves before using it.
func (l *Lifecycle) Splitter() *split.Splitter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.splitter
}

// Start performs the NotStarted->InProgress->Ready handshake. Only the
// first caller to win the CAS performs setup; any other thread observing
// InProgress or Ready returns immediately (spec §4.H) — Start never
// blocks the caller waiting for a concurrent setup to finish, matching the
// original's "any thread observing InProgress returns immediately without
// offloading".
func (l *Lifecycle) Start() {
	if !l.state.CompareAndSwap(int32(NotStarted), int32(InProgress)) {
		return
	}
	l.setup()
	l.state.Store(int32(Ready))
}

func (l *Lifecycle) setup() {
	l.setupOnce.Do(func() {
		l.ConfigStore = control.NewConfigStore()
		l.Debug = control.NewDebugProbes()
		l.ForkHooks = control.NewForkHooks()
		l.Events = control.NewEventRing(eventRingCapacity)
		control.RegisterPlatformProbes(l.Debug)
		l.Debug.RegisterProbe("events.recent", func() any { return l.Events.Recent() })
		l.Debug.RegisterProbe("config.snapshot", func() any { return l.ConfigStore.GetSnapshot() })
		registerForkHook(l)
	})

	umwait := wq.UmwaitSupport()
	cfg := api.LoadConfig(umwait)
	l.cfg = cfg
	l.Logger = control.NewLogger(cfg.LogFilePrefix, cfg.LogLevel)

	if cfg.CollectStats {
		l.Stats = control.NewHistogram(prometheus.DefaultRegisterer)
	} else {
		l.Stats = control.NewHistogram(nil)
	}

	l.ConfigStore.SetConfig(map[string]any{
		"cpu_size_fraction": cfg.CPUSizeFraction,
		"dsa_min_size":      cfg.MinBytes,
		"wait_method":       cfg.WaitMethod.String(),
		"numa_mode":         cfg.NumaMode.String(),
		"use_cpu_only":      cfg.UseStdCCalls,
	})

	if cfg.UseStdCCalls {
		l.useCPUOnly.Store(true)
		l.Logger.Trace("DTO_USESTDC_CALLS set, running CPU-only")
		return
	}

	wqs, err := l.prober.Probe(cfg.WQList)
	if err != nil || len(wqs) == 0 {
		l.useCPUOnly.Store(true)
		l.Logger.Error("no usable work queue found, falling back to CPU-only path")
		return
	}

	registry := wq.NewRegistry(wqs, cfg.NumaMode != api.NumaNone)
	selector := dispatch.NewSelector(registry, cfg.NumaMode)
	engine := dispatch.NewHWEngine()
	scratch := dispatch.NewScratchPool()
	tn := tuner.New(cfg.WaitMethod, cfg.CPUSizeFraction, cfg.MinBytes)

	l.mu.Lock()
	l.registry = registry
	l.splitter = &split.Splitter{
		Engine:     engine,
		Selector:   selector,
		Scratch:    scratch,
		Tuner:      tn,
		WaitMethod: cfg.WaitMethod,
	}
	l.mu.Unlock()

	l.Debug.RegisterProbe("wq.count", func() any { return registry.Len() })
	l.Debug.RegisterProbe("tuner.cpu_size_fraction", func() any { return tn.CPUSizeFraction() })
	l.Debug.RegisterProbe("tuner.dsa_min_size", func() any { return tn.DSAMinSize() })
	l.ForkHooks.Register(func() { l.reinitAfterFork() })
}

// reinitAfterFork resets the handshake and reruns setup in the child,
// matching the original's post-fork contract: stats and descriptors are
// reset, inherited portals are not reused, and WQs are remapped from
// scratch (spec §4.H).
func (l *Lifecycle) reinitAfterFork() {
	l.mu.Lock()
	if l.registry != nil {
		l.registry.UnmapAll(wq.UnmapPortal)
	}
	l.registry = nil
	l.splitter = nil
	l.mu.Unlock()

	l.useCPUOnly.Store(false)
	l.state.Store(int32(NotStarted))
	l.setup()
	l.state.Store(int32(Ready))
}

// Shutdown unmaps every portal and flushes the logger, mirroring the
// original's destructor (spec §4.H "Teardown").
func (l *Lifecycle) Shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.registry != nil {
		l.registry.UnmapAll(wq.UnmapPortal)
		l.registry = nil
	}
	l.splitter = nil
	if l.Logger != nil {
		_ = l.Logger.Sync()
	}
	l.state.Store(int32(NotStarted))
}
