package profile

import (
	"context"

	"paintpro/internal/app/server/api/http/apierr"
	"paintpro/internal/app/server/api/http/middleware/auth"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service profile.Servicer
	session session.Servicer
	log     *slog.Logger
	public  huma.Middlewares
	private huma.Middlewares
}

// NewHandler: public - для входа и списка профилей, private - с проверкой сессии
func NewHandler(service profile.Servicer, session session.Servicer, log *slog.Logger, public, private huma.Middlewares) *Handler {
	return &Handler{
		service: service,
		session: session,
		log:     log.With("component", "profile_handler"),
		public:  public,
		private: private,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.changePinOp(), h.changePin)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	profiles, err := h.service.List(ctx)
	if err != nil {
		return nil, apierr.From(h.log, err)
	}

	out := make([]profile.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Public())
	}

	return &listOutput{Body: profile.ListResponse{Profiles: out}}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	p, err := h.service.Login(ctx, input.Body.Pin, input.Body.ProfileID)
	if err != nil {
		return nil, apierr.From(h.log, err)
	}

	token, err := h.session.Create(ctx, p.ID)
	if err != nil {
		return nil, apierr.From(h.log, err)
	}

	h.log.Info("profile logged in", "id", p.ID)

	return &loginOutput{Body: profile.LoginResponse{Token: token, Profile: p}}, nil
}

func (h *Handler) changePin(ctx context.Context, input *changePinInput) (*struct{}, error) {
	profileID, ok := auth.GetProfileID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.ChangePin(ctx, profileID, input.Body.OldPin, input.Body.NewPin); err != nil {
		return nil, apierr.From(h.log, err)
	}

	return &struct{}{}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	profileID, ok := auth.GetProfileID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	p, err := h.service.Create(ctx, profileID, input.Body)
	if err != nil {
		return nil, apierr.From(h.log, err)
	}

	return &createOutput{Body: p.Public()}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*struct{}, error) {
	profileID, ok := auth.GetProfileID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, profileID, input.ID); err != nil {
		return nil, apierr.From(h.log, err)
	}

	return &struct{}{}, nil
}
