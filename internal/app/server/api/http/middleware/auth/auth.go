package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"paintpro/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Auth struct {
	session session.Servicer
	log     *slog.Logger
}

func New(session session.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		session: session,
		log:     log.With("component", "auth_middleware"),
	}
}

type contextKey string

const ProfileIDKey contextKey = "profileID"

// Middleware проверяет Bearer-токен и кладет id профиля в контекст
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			a.log.Debug("missing bearer token", "path", ctx.URL().Path)
			a.unauthorized(ctx, "missing bearer token")
			return
		}

		profileID, err := a.session.Validate(ctx.Context(), token)
		if err != nil {
			a.log.Debug("session rejected", "error", err)
			a.unauthorized(ctx, "invalid session")
			return
		}

		next(huma.WithContext(ctx, WithProfileID(ctx.Context(), profileID)))
	}
}

// unauthorized пишет ответ в формате ошибок huma
func (a *Auth) unauthorized(ctx huma.Context, detail string) {
	ctx.SetHeader("Content-Type", "application/problem+json")
	ctx.SetStatus(http.StatusUnauthorized)

	err := json.NewEncoder(ctx.BodyWriter()).Encode(huma.ErrorModel{
		Title:  http.StatusText(http.StatusUnauthorized),
		Status: http.StatusUnauthorized,
		Detail: detail,
	})
	if err != nil {
		a.log.Error("write unauthorized response", "error", err)
	}
}

func WithProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ProfileIDKey, profileID)
}

func GetProfileID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ProfileIDKey).(string)
	return id, ok && id != ""
}
