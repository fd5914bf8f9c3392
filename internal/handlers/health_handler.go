package handlers

import (
	"context"
	"net/http"

	"github.com/ruralpay/ledgersim/internal/services"
	"go.uber.org/zap"
)

// QueueDepther is satisfied by services.RedisQueue.
type QueueDepther interface {
	Depth(ctx context.Context) (settlement, fraudReview int64, err error)
}

type QueueDepth struct {
	Settlement  int64 `json:"settlement"`
	FraudReview int64 `json:"fraud_review"`
}

type HealthResponse struct {
	Status string      `json:"status"`
	Queue  *QueueDepth `json:"queue,omitempty"`
}

// HealthHandler reports liveness and, when Redis is configured, queue backlog.
type HealthHandler struct {
	queue QueueDepther
	log   *zap.Logger
}

func NewHealthHandler(queue QueueDepther, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{queue: queue, log: log}
}

// GetHealth returns service health
// @Summary Health check
// @Description Liveness plus settlement and fraud review queue depth
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy"}
	if h.queue != nil {
		settlement, fraudReview, err := h.queue.Depth(r.Context())
		if err != nil {
			h.log.Warn("Failed to read queue depth", zap.Error(err))
			resp.Status = "degraded"
		} else {
			resp.Queue = &QueueDepth{Settlement: settlement, FraudReview: fraudReview}
		}
	}
	services.SendJSON(w, http.StatusOK, resp)
}
