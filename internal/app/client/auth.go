package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/sync"
)

var ErrNotLoggedIn = errors.New("not logged in")

// AuthGateway - операции сервера с профилями
type AuthGateway interface {
	Login(ctx context.Context, pin, profileID string) (profile.LoginResponse, error)
	ListProfiles(ctx context.Context) ([]profile.Profile, error)
	ChangePin(ctx context.Context, oldPin, newPin string) error
	SetToken(token string)
}

// CurrentUser - активная сессия клиента
type CurrentUser struct {
	Profile    profile.Profile `json:"profile"`
	Token      string          `json:"token,omitempty"`
	Offline    bool            `json:"offline"` // вход выполнен без сервера
	LoggedInAt time.Time       `json:"logged_in_at"`
}

// Auth - вход по PIN с запасным офлайн-вариантом по кэшу профилей
type Auth struct {
	gateway AuthGateway
	store   Storage
	monitor *Monitor
	timeout time.Duration
	log     *slog.Logger
	now     func() time.Time
}

func NewAuth(gateway AuthGateway, store Storage, monitor *Monitor, timeout time.Duration, log *slog.Logger) *Auth {
	return &Auth{
		gateway: gateway,
		store:   store,
		monitor: monitor,
		timeout: timeout,
		log:     log.With("component", "auth"),
		now:     time.Now,
	}
}

// Login проверяет PIN на сервере. При сетевой ошибке или без связи
// PIN сверяется с закэшированными профилями.
func (a *Auth) Login(ctx context.Context, pin, profileID string) (profile.Profile, error) {
	if a.monitor.IsOnline() {
		resp, err := timed(ctx, a.timeout, func(ctx context.Context) (profile.LoginResponse, error) {
			return a.gateway.Login(ctx, pin, profileID)
		})
		if err == nil {
			a.remember(resp.Profile)
			a.setCurrent(CurrentUser{Profile: resp.Profile, Token: resp.Token, LoggedInAt: a.now().UTC()})
			a.log.Info("Вход выполнен", "profile_id", resp.Profile.ID)
			return resp.Profile.Public(), nil
		}
		if !sync.IsNetwork(err) {
			if errors.Is(err, profile.ErrInvalidAuth) {
				return profile.Profile{}, profile.ErrInvalidAuth
			}
			return profile.Profile{}, err
		}
		a.monitor.ReportError(err)
	}

	p, err := profile.MatchPin(a.cachedProfiles(), pin, profileID)
	if err != nil {
		return profile.Profile{}, err
	}
	a.setCurrent(CurrentUser{Profile: p, Offline: true, LoggedInAt: a.now().UTC()})
	a.log.Info("Вход выполнен офлайн", "profile_id", p.ID)
	return p.Public(), nil
}

// Logout забывает текущую сессию. Кэш профилей остается для офлайн-входа.
func (a *Auth) Logout() error {
	a.gateway.SetToken("")
	if err := a.store.Delete(keyCurrentUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Current возвращает текущего пользователя и выставляет его токен шлюзу
func (a *Auth) Current() (CurrentUser, error) {
	raw, ok, err := a.store.Get(keyCurrentUser)
	if err != nil {
		return CurrentUser{}, fmt.Errorf("read current user: %w", err)
	}
	if !ok || raw == "" {
		return CurrentUser{}, ErrNotLoggedIn
	}

	var u CurrentUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return CurrentUser{}, fmt.Errorf("decode current user: %w", err)
	}
	a.gateway.SetToken(u.Token)
	return u, nil
}

// Active - владелец сессии с токеном сервера. Офлайн-вход сессией
// для синхронизации не считается.
func (a *Auth) Active() (string, bool) {
	u, err := a.Current()
	if err != nil || u.Token == "" {
		return "", false
	}
	return u.Profile.ID, true
}

// Profiles - список профилей для выбора на входе
func (a *Auth) Profiles(ctx context.Context) []profile.Profile {
	if a.monitor.IsOnline() {
		list, err := timed(ctx, a.timeout, a.gateway.ListProfiles)
		if err == nil {
			return list
		}
		a.monitor.ReportError(err)
		a.log.Warn("Не удалось получить профили", "error", err)
	}

	cached := a.cachedProfiles()
	out := make([]profile.Profile, 0, len(cached))
	for _, p := range cached {
		out = append(out, p.Public())
	}
	return out
}

// ChangePin меняет PIN на сервере. Без связи недоступно.
func (a *Auth) ChangePin(ctx context.Context, oldPin, newPin string) error {
	u, err := a.Current()
	if err != nil {
		return err
	}
	if u.Token == "" {
		return fmt.Errorf("%w: offline session, log in online first", profile.ErrInvalidAuth)
	}
	if !a.monitor.IsOnline() {
		return sync.ErrOffline
	}

	_, err = timed(ctx, a.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.gateway.ChangePin(ctx, oldPin, newPin)
	})
	if err != nil {
		a.monitor.ReportError(err)
		return err
	}

	// офлайн-вход должен принимать уже новый PIN
	if hash, err := profile.HashPin(newPin); err == nil {
		u.Profile.PinHash = hash
		a.remember(u.Profile)
		a.setCurrent(u)
	}
	return nil
}

func (a *Auth) cachedProfiles() []profile.Profile {
	raw, ok, err := a.store.Get(keyUsers)
	if err != nil {
		a.log.Warn("Не удалось прочитать кэш профилей", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var list []profile.Profile
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		a.log.Warn("Кэш профилей поврежден", "error", err)
		return nil
	}
	return list
}

func (a *Auth) remember(p profile.Profile) {
	list := a.cachedProfiles()
	replaced := false
	for i := range list {
		if list[i].ID == p.ID {
			list[i] = p
			replaced = true
		}
	}
	if !replaced {
		list = append(list, p)
	}
	a.save(keyUsers, list)
}

func (a *Auth) setCurrent(u CurrentUser) {
	a.save(keyCurrentUser, u)
}

func (a *Auth) save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.Error("Не удалось сериализовать", "key", key, "error", err)
		return
	}
	if err := a.store.Set(key, string(data)); err != nil {
		a.log.Error("Не удалось сохранить", "key", key, "error", err)
	}
}
