package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"climate-server/internal/config"
)

// NewHandler wraps mux with request id, access logging and panic recovery.
func NewHandler(mux *http.ServeMux) http.Handler {
	return requestID(requestLogger(middleware.Recoverer(mux)))
}

func NewServer(config config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           NewHandler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
