// Package api
//
// Environment-derived configuration, read once at lifecycle init per
// spec §6. The CPU fraction and minimum offload size loaded here are the
// tuner's starting values; the tuner holds the runtime-adjusted ones.

package api

import (
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultMinBytes = 8192
	MinDSAMinSize   = 6144
	MaxDSAMinSize   = 65536
	MaxCPUFraction  = 0.9
)

// Config is the immutable snapshot of environment configuration captured at
// lifecycle start.
type Config struct {
	WQList          string // DTO_WQ_LIST, empty means full enumeration
	MinBytes        int    // DTO_MIN_BYTES
	CPUSizeFraction float64
	WaitMethod      WaitMethod
	AutoAdjust      bool
	NumaMode        NumaMode
	UseStdCCalls    bool
	CollectStats    bool
	LogFilePrefix   string
	LogLevel        int
}

// LoadConfig reads the DTO_* environment variables, applying the same
// validation and fallback rules as the original C implementation.
func LoadConfig(umwaitSupported bool) Config {
	cfg := Config{
		MinBytes:   DefaultMinBytes,
		WaitMethod: WaitYield,
		AutoAdjust: true,
	}

	cfg.WQList = os.Getenv("DTO_WQ_LIST")

	if v := os.Getenv("DTO_MIN_BYTES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MinBytes = int(n)
		}
	}

	if v := os.Getenv("DTO_CPU_SIZE_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f >= 1 {
			cfg.CPUSizeFraction = 0.0
		} else {
			// quantize to 2 decimal digits, as the original does via integer truncation
			cfg.CPUSizeFraction = math.Trunc(f*100) / 100
		}
	}

	switch strings.ToLower(os.Getenv("DTO_WAIT_METHOD")) {
	case "busypoll":
		cfg.WaitMethod = WaitBusyPoll
	case "umwait":
		if umwaitSupported {
			cfg.WaitMethod = WaitUmwait
		} else {
			cfg.WaitMethod = WaitYield
		}
	default:
		cfg.WaitMethod = WaitYield
	}

	if v := os.Getenv("DTO_AUTO_ADJUST_KNOBS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		cfg.AutoAdjust = err == nil && n != 0
	}

	if v := os.Getenv("DTO_IS_NUMA_AWARE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= int(NumaNone) && n <= int(NumaCPUCentric) {
			cfg.NumaMode = NumaMode(n)
		}
	}

	if v := os.Getenv("DTO_USESTDC_CALLS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		cfg.UseStdCCalls = err == nil && n != 0
	}

	if v := os.Getenv("DTO_COLLECT_STATS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		cfg.CollectStats = err == nil && n != 0
	}

	cfg.LogFilePrefix = os.Getenv("DTO_LOG_FILE")

	if v := os.Getenv("DTO_LOG_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n > 2 {
				n = 2
			}
			if n < 0 {
				n = 0
			}
			cfg.LogLevel = n
		}
	}

	return cfg
}

// WaitBounds returns the tuner's min/max average-wait thresholds for a
// given wait discipline, per spec §4.G.
func WaitBounds(w WaitMethod) (min, max float64) {
	if w == WaitYield {
		return 1.0, 2.0
	}
	return 5.0, 20.0
}
