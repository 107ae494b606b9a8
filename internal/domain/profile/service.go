package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context) ([]Profile, error)
	Get(ctx context.Context, id string) (Profile, error)
	Login(ctx context.Context, pin, profileID string) (Profile, error)
	Create(ctx context.Context, actorID string, req CreateRequest) (Profile, error)
	ChangePin(ctx context.Context, profileID, oldPin, newPin string) error
	Delete(ctx context.Context, actorID, profileID string) error
}

// CreateRequest - данные нового профиля
type CreateRequest struct {
	Name    string `json:"name" minLength:"1" maxLength:"64"`
	Avatar  string `json:"avatar,omitempty" maxLength:"8"`
	Color   string `json:"color,omitempty" maxLength:"16"`
	Pin     string `json:"pin" minLength:"4" maxLength:"8"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With("component", "profile_service"),
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.repo.FindByID(ctx, id)
}

// Login ищет профиль по PIN. Без profileID перебираются все профили:
// bcrypt солит хэши, поэтому найти профиль по хэшу напрямую нельзя.
func (s *Service) Login(ctx context.Context, pin, profileID string) (Profile, error) {
	if err := s.validator.ValidatePin(pin); err != nil {
		return Profile{}, ErrInvalidAuth
	}

	var candidates []Profile
	if profileID != "" {
		p, err := s.repo.FindByID(ctx, profileID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Profile{}, ErrInvalidAuth
			}
			return Profile{}, fmt.Errorf("find profile: %w", err)
		}
		candidates = []Profile{p}
	} else {
		all, err := s.repo.List(ctx)
		if err != nil {
			return Profile{}, fmt.Errorf("list profiles: %w", err)
		}
		candidates = all
	}

	p, err := MatchPin(candidates, pin, profileID)
	if err != nil {
		s.log.Debug("login failed", "profile_id", profileID)
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actorID string, req CreateRequest) (Profile, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return Profile{}, err
	}

	if err := s.validator.ValidateProfile(req.Name, req.Pin); err != nil {
		s.log.Debug("validation failed", "name", req.Name, "error", err)
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := HashPin(req.Pin)
	if err != nil {
		return Profile{}, fmt.Errorf("hash pin: %w", err)
	}

	p := Profile{
		ID:        "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Name:      strings.TrimSpace(req.Name),
		Avatar:    req.Avatar,
		Color:     req.Color,
		PinHash:   hash,
		IsAdmin:   req.IsAdmin,
		CreatedAt: s.now().UTC(),
	}
	if p.Avatar == "" {
		p.Avatar = initials(p.Name)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}

	s.log.Info("profile created", "id", p.ID, "actor", actorID)
	return p, nil
}

func (s *Service) ChangePin(ctx context.Context, profileID, oldPin, newPin string) error {
	p, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		return err
	}
	if !p.CheckPin(oldPin) {
		return ErrInvalidAuth
	}
	if err := s.validator.ValidatePin(newPin); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := HashPin(newPin)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.repo.UpdatePin(ctx, profileID, hash)
}

// Delete удаляет профиль. Только администратор и только чужой профиль.
func (s *Service) Delete(ctx context.Context, actorID, profileID string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if actorID == profileID {
		return ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, profileID); err != nil {
		return err
	}
	s.log.Info("profile deleted", "id", profileID, "actor", actorID)
	return nil
}

// EnsureDefaultAdmin создает профиль администратора в пустой базе
func (s *Service) EnsureDefaultAdmin(ctx context.Context, pin string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count profiles: %w", err)
	}
	if n > 0 {
		return nil
	}

	if err := s.validator.ValidatePin(pin); err != nil {
		return fmt.Errorf("%w: admin pin: %v", ErrInvalidInput, err)
	}
	hash, err := HashPin(pin)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}

	admin := Profile{
		ID:        DefaultAdminID,
		Name:      "Administrátor",
		Avatar:    "A",
		Color:     "#dc2626",
		PinHash:   hash,
		IsAdmin:   true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Warn("default admin profile created, change its pin", "id", admin.ID)
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(word))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
