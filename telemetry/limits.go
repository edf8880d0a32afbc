package telemetry

import (
	"net/http"

	"go.uber.org/ratelimit"
)

// ConnectionLimiter admits new telemetry WebSocket connections at a
// bounded rate, replacing the concern (not the code) of
// federation/server/limits.go's hand-rolled token bucket with a
// published rate limiter, the way klauern-clash-royale-api uses
// go.uber.org/ratelimit for API admission control.
type ConnectionLimiter struct {
	limiter ratelimit.Limiter
	hub     *Hub
}

// NewConnectionLimiter wraps hub so that at most connectionsPerSecond
// new sessions are accepted per second; a reconnect storm is paced out
// rather than rejected outright, since go.uber.org/ratelimit is a
// leaky-bucket limiter that blocks callers until admission rather than
// an admit-or-reject gate.
func NewConnectionLimiter(hub *Hub, connectionsPerSecond int) *ConnectionLimiter {
	if connectionsPerSecond <= 0 {
		connectionsPerSecond = 1
	}
	return &ConnectionLimiter{
		limiter: ratelimit.New(connectionsPerSecond),
		hub:     hub,
	}
}

// ServeHTTP blocks until the rate limiter admits the connection, then
// delegates to the Hub's WebSocket handler.
func (l *ConnectionLimiter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.limiter.Take()
	l.hub.ServeHTTP(w, r)
}
