// Package control
// Author: momentics <momentics@gmail.com>
//
// Hot-reload, runtime metrics, configuration control, and debug introspection layer
// for hioload-vbuf pipes.
//
// Provides concurrent-safe state handling primitives including:
//   - Snapshot config reads, ucfg-typed unpacking and YAML loading
//   - Runtime observers for hot-reload
//   - Metrics published by relay pumps
//   - State export and per-buffer debug probes
package control
