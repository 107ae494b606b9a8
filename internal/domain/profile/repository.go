package profile

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]Profile, error)
	FindByID(ctx context.Context, id string) (Profile, error)
	Create(ctx context.Context, p Profile) error
	UpdatePin(ctx context.Context, id, pinHash string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
