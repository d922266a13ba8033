// Package server exposes the process health endpoint.
package server

import (
	"encoding/json"
	"net/http"
)

// Server serves operational endpoints next to the bot poller.
type Server struct {
	mux *http.ServeMux
}

// New builds the HTTP surface.
func New() *Server {
	s := &Server{mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Router returns the handler for http.Server.
func (s *Server) Router() http.Handler { return s.mux }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
