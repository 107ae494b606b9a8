package order

import (
	"context"
)

// Repository - хранилище заказов на стороне сервера
type Repository interface {
	List(ctx context.Context, ownerID string, ascending bool) ([]Order, error)
	Get(ctx context.Context, ownerID, id string) (Order, error)
	Create(ctx context.Context, o Order) error
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, ownerID, id string) error
}
