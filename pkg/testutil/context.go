package testutil

import (
	"net/http"
	"time"

	"registrar/pkg/requestcontext"
)

// WithActor stamps an actor id on the request context, simulating what the
// reviewer-auth middleware does for authenticated requests.
func WithActor(req *http.Request, actorID string) *http.Request {
	return req.WithContext(requestcontext.WithActorID(req.Context(), actorID))
}

// WithRequestTime pins the request clock, simulating the request-time
// middleware so timestamp assertions are deterministic.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
