package profile

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "profiles-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles",
		Summary:     "Список профилей для экрана входа",
		Tags:        []string{"profiles"},
		Middlewares: h.public,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Вход по PIN",
		Description: "Возвращает токен сессии и профиль вместе с хэшем PIN для офлайн-входа.",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) changePinOp() huma.Operation {
	return huma.Operation{
		OperationID:   "auth-change-pin",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/pin",
		Summary:       "Смена своего PIN",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.private,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "profiles-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/profiles",
		Summary:       "Создать профиль (администратор)",
		Tags:          []string{"profiles"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.private,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "profiles-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/profiles/{id}",
		Summary:       "Удалить профиль (администратор)",
		Tags:          []string{"profiles"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.private,
	}
}
