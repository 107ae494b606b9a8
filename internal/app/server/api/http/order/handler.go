package order

import (
	"context"

	"paintpro/internal/app/server/api/http/apierr"
	"paintpro/internal/app/server/api/http/middleware/auth"
	"paintpro/internal/domain/order"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    order.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service order.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "order_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	ownerID, ok := auth.GetProfileID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	orders, err := h.service.List(ctx, ownerID, input.Order == "asc")
	if err != nil {
		return nil, apierr.From(h.log, err)
	}

	wire := make([]order.Wire, 0, len(orders))
	for _, o := range orders {
		wire = append(wire, order.ToWire(o))
	}

	return &listOutput{Body: order.ListResponse{Orders: wire}}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*orderOutput, error) {
	ownerID, ok := auth.GetProfileID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	o, err := h.service.Create(ctx, ownerID, input.Body.Draft(), input.Body.CreatedAt)
	if err != nil {
		return nil, apierr.From(h.log, err)
	}

	return &orderOutput{Body: order.ToWire(o)}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*orderOutput, error) {
	ownerID, ok := auth.GetProfileID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	o, err := h.service.Update(ctx, ownerID, input.ID, input.Body.Patch())
	if err != nil {
		return nil, apierr.From(h.log, err)
	}

	return &orderOutput{Body: order.ToWire(o)}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*struct{}, error) {
	ownerID, ok := auth.GetProfileID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, ownerID, input.ID); err != nil {
		return nil, apierr.From(h.log, err)
	}

	return &struct{}{}, nil
}
