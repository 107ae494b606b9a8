package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context, ownerID string, ascending bool) ([]Order, error)
	Create(ctx context.Context, ownerID string, d Draft, createdAt time.Time) (Order, error)
	Update(ctx context.Context, ownerID, id string, p Patch) (Order, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Service - серверная логика удаленного хранилища заказов
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "order_service"),
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context, ownerID string, ascending bool) ([]Order, error) {
	orders, err := s.repo.List(ctx, ownerID, ascending)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Create присваивает постоянный идентификатор и сохраняет заказ.
// Время создания клиента сохраняется, чтобы last-writer-wins сравнивал одно и то же.
func (s *Service) Create(ctx context.Context, ownerID string, d Draft, createdAt time.Time) (Order, error) {
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	o := New(ownerID, Durable(uuid.NewString()), d, createdAt)
	if err := o.Validate(); err != nil {
		s.log.Debug("validation failed", "owner_id", ownerID, "error", err)
		return Order{}, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	s.log.Debug("order created", "owner_id", ownerID, "id", o.ID.Value())
	return o, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, p Patch) (Order, error) {
	if p.IsEmpty() {
		return Order{}, fmt.Errorf("%w: %w", ErrInvalidData, ErrEmptyPatch)
	}

	current, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Order{}, err
	}

	updated := p.Apply(current)
	if err := updated.Validate(); err != nil {
		return Order{}, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}
