package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"pqr-portal/db"
	"pqr-portal/logging"
)

type HealthHandler struct {
	redisClient db.RedisClient
	log         zerolog.Logger
}

func NewHealthHandler(redisClient db.RedisClient) *HealthHandler {
	return &HealthHandler{redisClient: redisClient, log: logging.Component("HealthHandler")}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.redisClient.Ping(); err != nil {
		h.log.Warn().Err(err).Msg("Redis ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"}, h.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"}, h.log)
}
