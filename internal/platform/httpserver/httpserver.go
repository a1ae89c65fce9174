package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with conservative timeouts. Filing payloads
// are small; anything slow is a stuck client, not a big upload.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}
