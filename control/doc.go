// Package control holds the library's ambient operational stack: live
// config snapshots, structured logging, the Prometheus-backed stat
// histogram, debug probes, and the fork-hook registry dispatched from
// internal/lifecycle's post-fork reinitialization.
package control
