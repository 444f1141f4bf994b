// Command dtostat dumps a snapshot of the shim's runtime state: WQ count,
// tuner parameters, platform info, and (if DTO_COLLECT_STATS is set) the
// Prometheus stat histogram, in the format a human or a scrape job can
// read without attaching a debugger.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/intel/dto/facade"
	"github.com/intel/dto/internal/lifecycle"
)

func main() {
	once := flag.Bool("once", true, "print one snapshot and exit")
	metricsAddr := flag.String("metrics-address", "", "if set, serve Prometheus metrics on this address instead of exiting")
	interval := flag.Duration("interval", 2*time.Second, "snapshot interval when -once=false")
	flag.Parse()

	_ = facade.Fill // force the facade package's init() to run and start the lifecycle

	l := lifecycle.Global()

	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		fmt.Fprintf(os.Stderr, "serving metrics on %s\n", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			fmt.Fprintf(os.Stderr, "dtostat: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dump := func() {
		snapshot := map[string]any{
			"state":        l.State().String(),
			"use_cpu_only": l.UseCPUOnly(),
			"probes":       l.Debug.DumpState(),
		}
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "dtostat: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	}

	if *once {
		dump()
		return
	}
	for range time.Tick(*interval) {
		dump()
	}
}
