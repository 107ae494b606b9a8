package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paintpro/internal/app/client/config"
	"paintpro/internal/domain/order"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/sync"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{ServerAddress: strings.TrimPrefix(srv.URL, "http://")}
	return NewHTTPGateway(cfg, testLogger())
}

func TestHTTPGateway_Insert(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req order.CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Revenue.Equal(decimalOf(5000)))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(order.Wire{
			ID:      "r42",
			OwnerID: "u1",
			Number:  req.Number,
			Revenue: req.Revenue,
			Fee:     req.Fee,
			Profit:  decimalOf(999), // прибыль сервера не принимается на веру
		})
	})
	gw.SetToken("secret")

	rec := order.New("u1", order.Temporary("tok"), draft("1", 5000, 1000, 0, 0, 0), time.Now())
	got, err := gw.Insert(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, order.Durable("r42"), got.ID)
	assert.True(t, got.Profit.Equal(decimalOf(4000)))
}

func TestHTTPGateway_ErrorClasses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantClass sync.Class
		wantIs    error
	}{
		{name: "server error", status: http.StatusInternalServerError, wantClass: sync.ClassNetwork},
		{name: "bad gateway", status: http.StatusBadGateway, wantClass: sync.ClassNetwork},
		{name: "request timeout", status: http.StatusRequestTimeout, wantClass: sync.ClassNetwork},
		{name: "rate limited", status: http.StatusTooManyRequests, wantClass: sync.ClassNetwork},
		{name: "not found", status: http.StatusNotFound, wantClass: sync.ClassData, wantIs: order.ErrNotFound},
		{name: "validation", status: http.StatusUnprocessableEntity, wantClass: sync.ClassData, wantIs: order.ErrInvalidData},
		{name: "unauthorized", status: http.StatusUnauthorized, wantClass: sync.ClassAuth, wantIs: profile.ErrInvalidAuth},
		{name: "forbidden", status: http.StatusForbidden, wantClass: sync.ClassAuth, wantIs: profile.ErrForbidden},
		{name: "conflict", status: http.StatusConflict, wantClass: sync.ClassData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(errorBody{Title: http.StatusText(tt.status), Status: tt.status, Detail: "boom"})
			})

			err := gw.Delete(context.Background(), order.Durable("r1"))

			require.Error(t, err)
			assert.Equal(t, tt.wantClass, sync.Classify(err))
			assert.Contains(t, err.Error(), "boom")
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestHTTPGateway_TransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	gw := NewHTTPGateway(&config.Config{ServerAddress: addr}, testLogger())
	_, err := gw.SelectByOwner(context.Background(), "u1", true)

	assert.ErrorIs(t, err, sync.ErrNetwork)
	assert.Error(t, gw.Ping(context.Background()))
}

func TestHTTPGateway_TimeoutIsNetwork(t *testing.T) {
	release := make(chan struct{})
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := gw.SelectByOwner(ctx, "u1", false)

	assert.True(t, sync.IsNetwork(err))
}

func TestHTTPGateway_SelectByOwner(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "asc", r.URL.Query().Get("order"))
		json.NewEncoder(w).Encode(order.ListResponse{Orders: []order.Wire{
			{ID: "r1", OwnerID: "u1", Revenue: decimalOf(100), Fee: decimalOf(10)},
			{ID: "r2", OwnerID: "u2", Revenue: decimalOf(100)},
		}})
	})

	got, err := gw.SelectByOwner(context.Background(), "u1", true)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, order.Durable("r1"), got[0].ID)
	assert.True(t, got[0].Profit.Equal(decimalOf(90)))
}

func TestHTTPGateway_UpdateSendsPatchOnly(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/orders/r1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"fee": "250"}, body)

		json.NewEncoder(w).Encode(order.Wire{ID: "r1", OwnerID: "u1", Revenue: decimalOf(1000), Fee: decimalOf(250)})
	})

	fee := decimalOf(250)
	got, err := gw.Update(context.Background(), order.Durable("r1"), order.Patch{Fee: &fee})

	require.NoError(t, err)
	assert.True(t, got.Profit.Equal(decimalOf(750)))

	_, err = gw.Update(context.Background(), order.Temporary("tok"), order.Patch{Fee: &fee})
	assert.ErrorIs(t, err, sync.ErrUnresolvedTarget)
}

func TestHTTPGateway_LoginStoresToken(t *testing.T) {
	auths := make(chan string, 1)
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			json.NewEncoder(w).Encode(profile.LoginResponse{Token: "t1", Profile: profile.Profile{ID: "admin_1"}})
		default:
			auths <- r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(profile.ListResponse{})
		}
	})

	resp, err := gw.Login(context.Background(), "1234", "")
	require.NoError(t, err)
	assert.Equal(t, "admin_1", resp.Profile.ID)

	_, err = gw.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", <-auths)
}
