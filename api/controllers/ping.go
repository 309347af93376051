package controllers

import (
	"net/http"
	"time"

	"github.com/modern-pedagogues/platform-backend/api/responses"
)

// PublicPing is an unauthenticated reachability probe for clients.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"message":     "pong",
			"server_time": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
