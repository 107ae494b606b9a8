package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Pinger - хранилище, доступность которого входит в проверку
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db         Pinger
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

func NewHandler(db Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		db:         db,
		log:        log,
		middleware: middleware,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

// healthCheck отвечает 503, если база недоступна: клиент считает это сетевой ошибкой
func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.log.Warn("health check: database unavailable", "error", err)
			return nil, huma.Error503ServiceUnavailable("database unavailable")
		}
	}

	return &Output{
		Body: Response{
			Status: "OK",
			Time:   h.now().UTC(),
		},
	}, nil
}
