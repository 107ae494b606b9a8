package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"paintpro/internal/app/client/config"
	"paintpro/internal/domain/order"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/sync"
)

// HTTPGateway - удаленное хранилище поверх HTTP API сервера.
// Транспортные сбои, таймауты, 5xx, 408 и 429 считаются сетевыми,
// остальные 4xx - ошибками данных.
type HTTPGateway struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string

	mu    gosync.RWMutex
	token string
}

func NewHTTPGateway(cfg *config.Config, log *slog.Logger) *HTTPGateway {
	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &HTTPGateway{
		client:    client,
		log:       log.With("component", "http_gateway"),
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "PaintPro-Client/1.0",
	}
}

// SetToken устанавливает токен аутентификации
func (h *HTTPGateway) SetToken(token string) {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
}

// Ping проверяет доступность сервера
func (h *HTTPGateway) Ping(ctx context.Context) error {
	return h.do(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}

func (h *HTTPGateway) Insert(ctx context.Context, rec order.Order) (order.Order, error) {
	var w order.Wire
	if err := h.do(ctx, http.MethodPost, "/api/v1/orders", order.NewCreateRequest(rec), &w); err != nil {
		return order.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return w.Order(), nil
}

func (h *HTTPGateway) Update(ctx context.Context, id order.ID, patch order.Patch) (order.Order, error) {
	if !id.IsDurable() {
		return order.Order{}, sync.DataError(sync.ErrUnresolvedTarget)
	}

	var w order.Wire
	if err := h.do(ctx, http.MethodPatch, "/api/v1/orders/"+url.PathEscape(id.Value()), order.NewPatchRequest(patch), &w); err != nil {
		return order.Order{}, fmt.Errorf("update order %s: %w", id, err)
	}
	return w.Order(), nil
}

func (h *HTTPGateway) Delete(ctx context.Context, id order.ID) error {
	if !id.IsDurable() {
		return sync.DataError(sync.ErrUnresolvedTarget)
	}

	if err := h.do(ctx, http.MethodDelete, "/api/v1/orders/"+url.PathEscape(id.Value()), nil, nil); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	return nil
}

func (h *HTTPGateway) SelectByOwner(ctx context.Context, ownerID string, ascending bool) ([]order.Order, error) {
	dir := "desc"
	if ascending {
		dir = "asc"
	}

	var resp order.ListResponse
	if err := h.do(ctx, http.MethodGet, "/api/v1/orders?order="+dir, nil, &resp); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	orders := make([]order.Order, 0, len(resp.Orders))
	for _, w := range resp.Orders {
		// владелец определяется токеном, ответ должен ему соответствовать
		if ownerID != "" && w.OwnerID != ownerID {
			continue
		}
		orders = append(orders, w.Order())
	}
	return orders, nil
}

// Login входит по PIN и запоминает выданный токен
func (h *HTTPGateway) Login(ctx context.Context, pin, profileID string) (profile.LoginResponse, error) {
	var resp profile.LoginResponse
	req := profile.LoginRequest{Pin: pin, ProfileID: profileID}
	if err := h.do(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return profile.LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	h.SetToken(resp.Token)
	return resp, nil
}

func (h *HTTPGateway) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	var resp profile.ListResponse
	if err := h.do(ctx, http.MethodGet, "/api/v1/profiles", nil, &resp); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return resp.Profiles, nil
}

func (h *HTTPGateway) ChangePin(ctx context.Context, oldPin, newPin string) error {
	req := profile.ChangePinRequest{OldPin: oldPin, NewPin: newPin}
	if err := h.do(ctx, http.MethodPost, "/api/v1/auth/pin", req, nil); err != nil {
		return fmt.Errorf("change pin: %w", err)
	}
	return nil
}

// errorBody - ответ об ошибке в формате huma (RFC 9457)
type errorBody struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (h *HTTPGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return sync.DataError(fmt.Errorf("ошибка сериализации запроса: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return sync.DataError(fmt.Errorf("ошибка создания запроса: %w", err))
	}

	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	h.mu.RLock()
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	h.mu.RUnlock()

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return sync.NetworkError(fmt.Errorf("сервер недоступен: %w", err))
	}
	defer resp.Body.Close()

	h.log.Debug("Запрос к серверу", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return sync.NetworkError(err)
		}
		return sync.DataError(fmt.Errorf("ошибка разбора ответа: %w", err))
	}
	return nil
}

func statusError(resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := http.StatusText(resp.StatusCode)
	if json.Unmarshal(raw, &eb) == nil && eb.Detail != "" {
		msg = eb.Detail
	}
	base := fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)

	switch {
	case resp.StatusCode >= 500,
		resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests:
		return sync.NetworkError(base)
	case resp.StatusCode == http.StatusNotFound:
		return sync.DataError(fmt.Errorf("%w: %w", order.ErrNotFound, base))
	// отказ сессии не говорит ничего о самих данных: операции ждут входа
	case resp.StatusCode == http.StatusUnauthorized:
		return sync.AuthError(fmt.Errorf("%w: %w", profile.ErrInvalidAuth, base))
	case resp.StatusCode == http.StatusForbidden:
		return sync.AuthError(fmt.Errorf("%w: %w", profile.ErrForbidden, base))
	case resp.StatusCode == http.StatusUnprocessableEntity, resp.StatusCode == http.StatusBadRequest:
		return sync.DataError(fmt.Errorf("%w: %w", order.ErrInvalidData, base))
	default:
		return sync.DataError(base)
	}
}
