package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var errConnectionClosed = errors.New("connection closed")

// Version is reported by /api/health.
var Version = "0.1.0"

const (
	depReady         = "ready"
	depNotConfigured = "not configured"
	pingTimeout      = 2 * time.Second
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ConnectionState interface {
	IsClosed() bool
}

// HealthHandler reports the database, the campaign queue and the content
// provider. Only a configured dependency that fails makes the service
// degraded; missing optional ones are reported but do not.
type HealthHandler struct {
	DB          Pinger
	RabbitMQ    ConnectionState
	LLMProvider string
	StartTime   time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(db Pinger, rabbitMQ ConnectionState, llmProvider string) *HealthHandler {
	return &HealthHandler{
		DB:          db,
		RabbitMQ:    rabbitMQ,
		LLMProvider: llmProvider,
		StartTime:   time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:       "healthy",
		Version:      Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: map[string]string{},
	}

	report := func(name string, configured bool, err error) {
		switch {
		case !configured:
			resp.Dependencies[name] = depNotConfigured
		case err != nil:
			resp.Dependencies[name] = "unhealthy: " + err.Error()
			resp.Status = "degraded"
		default:
			resp.Dependencies[name] = depReady
		}
	}

	report("database", h.DB != nil, h.pingDB(r.Context()))
	report("rabbitmq", h.RabbitMQ != nil, h.queueState())
	report("llm", h.LLMProvider != "", nil)
	if h.LLMProvider != "" {
		resp.Dependencies["llm"] = h.LLMProvider
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	if h.DB == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.DB.PingContext(ctx)
}

func (h *HealthHandler) queueState() error {
	if h.RabbitMQ == nil || !h.RabbitMQ.IsClosed() {
		return nil
	}
	return errConnectionClosed
}
