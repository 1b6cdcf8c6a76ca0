package server

import (
	"net/http"

	"github.com/getmockd/recstore/pkg/httputil"
	"github.com/getmockd/recstore/pkg/stateful"
)

// registerShared adds the endpoints every surface exposes.
func (s *Server) registerShared(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	if s.doc != nil {
		mux.Handle("GET /openapi.json", s.doc)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]any{
		"status":  "ok",
		"surface": s.surface.Name(),
		"uptime":  int(s.Uptime().Seconds()),
	}, "")
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	resources := []stateful.ResourceMetrics{}
	if s.metrics != nil {
		resources = s.metrics.Snapshot()
	}
	httputil.WriteOK(w, map[string]any{"resources": resources}, "")
}

// dispatcher serves matched routes through the mux and writes route misses
// in the error envelope instead of net/http's plain-text bodies.
type dispatcher struct {
	mux *http.ServeMux
}

func (d *dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, pattern := d.mux.Handler(r)
	if pattern != "" {
		// ServeHTTP, not h, so that path wildcards are populated.
		d.mux.ServeHTTP(w, r)
		return
	}

	// Let the mux's own not-found or method-not-allowed handler decide which
	// miss this is, and keep its Allow header.
	probe := &missProbe{header: make(http.Header), status: http.StatusNotFound}
	h.ServeHTTP(probe, r)

	if probe.status == http.StatusMethodNotAllowed {
		if allow := probe.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		httputil.WriteFailure(w, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed,
			"Method "+r.Method+" not allowed on "+r.URL.Path, nil)
		return
	}
	httputil.WriteFailure(w, http.StatusNotFound, httputil.CodeRouteNotFound,
		"Route "+r.URL.Path+" not found", nil)
}

// missProbe records what a miss handler would have written.
type missProbe struct {
	header http.Header
	status int
}

func (p *missProbe) Header() http.Header         { return p.header }
func (p *missProbe) Write(b []byte) (int, error) { return len(b), nil }
func (p *missProbe) WriteHeader(code int)        { p.status = code }
