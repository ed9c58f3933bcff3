// Package web serves the switch monitor's status page.
package web

import (
	"context"
	"net/http"

	"github.com/sweeney/switchmypi/internal/status"
)

// Server is a read-only view of a status.Tracker. It answers GET and HEAD
// on /, /index.html and /index.json.
type Server struct {
	tracker *status.Tracker
	http    *http.Server
}

// New returns a Server for addr. Nothing listens until ListenAndServe.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}
	s.http = &http.Server{Addr: addr, Handler: s}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var render func(http.ResponseWriter, status.Snapshot)
	switch r.URL.Path {
	case "/", "/index.html":
		render = writeHTML
	case "/index.json":
		render = writeJSON
	default:
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	render(w, s.tracker.Snapshot())
}

// ListenAndServe blocks until Shutdown.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func writeHTML(w http.ResponseWriter, snap status.Snapshot) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func writeJSON(w http.ResponseWriter, snap status.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
