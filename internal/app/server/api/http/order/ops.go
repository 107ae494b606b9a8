package order

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "orders-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/orders",
		Summary:     "Заказы текущего профиля",
		Tags:        []string{"orders"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "orders-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/orders",
		Summary:       "Создать заказ",
		Description:   "Сервер присваивает постоянный ID и пересчитывает прибыль.",
		Tags:          []string{"orders"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "orders-update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/orders/{id}",
		Summary:     "Изменить заказ",
		Tags:        []string{"orders"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "orders-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/orders/{id}",
		Summary:       "Удалить заказ",
		Tags:          []string{"orders"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}
