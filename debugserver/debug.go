// Package debugserver exposes pprof, fgprof, Prometheus metrics and a
// kernel state dump behind a single HTTP mux, adapted from the teacher
// repo's internal/debugserver. That version wires in a distributed tracer
// and a cluster-wide service registry neither of which apply to a
// single-process kernel simulator; what's kept is the index page plus
// pprof/fgprof/metrics wiring, with the tracer-backed "Requests"/"Events"
// endpoints replaced by a single "Dump" endpoint backed by a Dumper.
package debugserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/felixge/fgprof"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dumper is anything able to snapshot its own state for the debug index's
// "Dump" endpoint. *kernel.Kernel implements this.
type Dumper interface {
	DebugDump() interface{}
}

// Endpoint is an extra handler shown on the debug index page, alongside the
// built-in pprof/fgprof/metrics/dump ones.
type Endpoint struct {
	Name    string
	Path    string
	Handler http.Handler
}

// NewHandler builds the debug mux: an index linking every registered
// endpoint, pprof/fgprof under /debug/, Prometheus metrics at /metrics,
// and a /debug/dump endpoint
// that JSON-encodes dumper.DebugDump() on every request.
func NewHandler(dumper Dumper, extra ...Endpoint) http.Handler {
	router := mux.NewRouter()

	index := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
			<a href="debug/pprof/">PProf</a><br>
			<a href="debug/fgprof">FGProf (30s CPU sample)</a><br>
			<a href="debug/dump">Kernel dump</a><br>
			<a href="metrics">Metrics</a><br>
		`))
		for _, e := range extra {
			fmt.Fprintf(w, `<a href="%s">%s</a><br>`, strings.TrimPrefix(e.Path, "/"), e.Name)
		}
	})

	router.Handle("/", index)
	router.Handle("/debug", index)
	router.Handle("/debug/fgprof", fgprof.Handler())
	router.Handle("/debug/pprof/cmdline", http.HandlerFunc(pprof.Cmdline))
	router.Handle("/debug/pprof/profile", http.HandlerFunc(pprof.Profile))
	router.Handle("/debug/pprof/symbol", http.HandlerFunc(pprof.Symbol))
	router.Handle("/debug/pprof/trace", http.HandlerFunc(pprof.Trace))
	router.Handle("/debug/dump", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dumper.DebugDump())
	}))
	router.Handle("/metrics", promhttp.Handler())

	// Wildcard, must come after the specific /debug/pprof/* registrations above.
	router.PathPrefix("/debug/pprof").HandlerFunc(pprof.Index)

	for _, e := range extra {
		router.Handle(e.Path, e.Handler)
	}

	return router
}
