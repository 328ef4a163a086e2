package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is implemented by backing stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck reports liveness. When store is set its reachability is
// included but never fails the check.
func HealthCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{
			"status": "ok",
		}
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			response["preferences"] = "ok"
			if err := store.Ping(ctx); err != nil {
				response["preferences"] = "unavailable"
			}
		}
		writeJSON(w, http.StatusOK, response)
	}
}
