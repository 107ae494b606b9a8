// Package apierr переводит доменные ошибки в ответы huma.
package apierr

import (
	"errors"

	"paintpro/internal/domain/order"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// From возвращает huma.StatusError для err. Неизвестные ошибки
// логируются и скрываются за 500.
func From(log *slog.Logger, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, profile.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, order.ErrInvalidData), errors.Is(err, order.ErrInvalidID),
		errors.Is(err, order.ErrEmptyPatch), errors.Is(err, profile.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, profile.ErrInvalidAuth), errors.Is(err, session.ErrInvalidSession),
		errors.Is(err, session.ErrEmptyToken):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, profile.ErrForbidden), errors.Is(err, profile.ErrSelfDelete):
		return huma.Error403Forbidden(err.Error())
	}

	log.Error("request failed", "error", err)
	return huma.Error500InternalServerError("internal error")
}
