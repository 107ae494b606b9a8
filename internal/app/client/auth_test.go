package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/sync"
)

func newAuth(t *testing.T, online bool) (*Auth, *fakeGateway, *Monitor, *MemoryStorage) {
	t.Helper()

	hash, err := profile.HashPin("1234")
	require.NoError(t, err)

	gw := newFakeGateway()
	gw.profiles = []profile.Profile{{ID: "admin_1", Name: "Admin", PinHash: hash, IsAdmin: true}}
	store := NewMemoryStorage()
	monitor := NewMonitor(online, 0, testLogger())

	return NewAuth(gw, store, monitor, time.Second, testLogger()), gw, monitor, store
}

func TestAuth_OnlineLoginCachesProfile(t *testing.T) {
	a, gw, monitor, _ := newAuth(t, true)

	p, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)
	assert.Equal(t, "admin_1", p.ID)
	assert.Empty(t, p.PinHash, "hash is not handed to the caller")

	u, err := a.Current()
	require.NoError(t, err)
	assert.Equal(t, "token-admin_1", u.Token)
	assert.False(t, u.Offline)

	// без сервера вход проходит по закэшированному профилю
	require.NoError(t, a.Logout())
	monitor.SetOffline(errDown)
	gw.profiles = nil

	p, err = a.Login(context.Background(), "1234", "admin_1")
	require.NoError(t, err)
	assert.Equal(t, "admin_1", p.ID)

	u, err = a.Current()
	require.NoError(t, err)
	assert.True(t, u.Offline)
	assert.Empty(t, u.Token)
}

func TestAuth_WrongPinOnlineDoesNotFallBack(t *testing.T) {
	a, _, _, _ := newAuth(t, true)
	_, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)

	_, err = a.Login(context.Background(), "9999", "")

	assert.ErrorIs(t, err, profile.ErrInvalidAuth)
}

func TestAuth_NetworkFailureFallsBackToCache(t *testing.T) {
	a, gw, monitor, _ := newAuth(t, true)
	_, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)

	gw.failNext("login", errDown)
	p, err := a.Login(context.Background(), "1234", "")

	require.NoError(t, err)
	assert.Equal(t, "admin_1", p.ID)
	assert.False(t, monitor.IsOnline())
}

func TestAuth_OfflineWithoutCache(t *testing.T) {
	a, _, _, _ := newAuth(t, false)

	_, err := a.Login(context.Background(), "1234", "")

	assert.ErrorIs(t, err, profile.ErrInvalidAuth)
	_, err = a.Current()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestAuth_ProfileIDNarrowsOfflineMatch(t *testing.T) {
	a, _, monitor, _ := newAuth(t, true)
	_, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)
	monitor.SetOffline(errDown)

	_, err = a.Login(context.Background(), "1234", "user_other")

	assert.ErrorIs(t, err, profile.ErrInvalidAuth)
}

func TestAuth_ChangePinRequiresOnlineSession(t *testing.T) {
	a, _, monitor, _ := newAuth(t, true)

	assert.ErrorIs(t, a.ChangePin(context.Background(), "1234", "5678"), ErrNotLoggedIn)

	_, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)
	require.NoError(t, a.ChangePin(context.Background(), "1234", "5678"))

	// новый PIN работает и без сети
	monitor.SetOffline(errDown)
	_, err = a.Login(context.Background(), "5678", "")
	require.NoError(t, err)

	assert.ErrorIs(t, a.ChangePin(context.Background(), "5678", "1111"), profile.ErrInvalidAuth, "offline session has no token")
}

func TestAuth_ChangePinOffline(t *testing.T) {
	a, _, monitor, _ := newAuth(t, true)
	_, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)
	monitor.SetOffline(errDown)

	assert.ErrorIs(t, a.ChangePin(context.Background(), "1234", "5678"), sync.ErrOffline)
}

func TestAuth_ProfilesFallBackToCache(t *testing.T) {
	a, gw, _, _ := newAuth(t, true)
	_, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)

	gw.failNext("profiles", errDown)
	list := a.Profiles(context.Background())

	require.Len(t, list, 1)
	assert.Empty(t, list[0].PinHash)
}

func TestAuth_ActiveRequiresServerToken(t *testing.T) {
	a, gw, monitor, _ := newAuth(t, true)

	_, ok := a.Active()
	assert.False(t, ok, "nobody logged in")

	_, err := a.Login(context.Background(), "1234", "")
	require.NoError(t, err)
	gw.SetToken("")

	owner, ok := a.Active()
	assert.True(t, ok)
	assert.Equal(t, "admin_1", owner)
	assert.Equal(t, "token-admin_1", gw.token, "active session hands its token to the gateway")

	require.NoError(t, a.Logout())
	monitor.SetOffline(errDown)
	_, err = a.Login(context.Background(), "1234", "admin_1")
	require.NoError(t, err)

	_, ok = a.Active()
	assert.False(t, ok, "offline login has no server session")
}
