package client

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	gosync "sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"

	"paintpro/internal/domain/order"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/sync"
)

var errDown = sync.NetworkError(errors.New("connection refused"))

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGateway - удаленное хранилище в памяти. Ошибки задаются очередью
// на каждый метод: insert, update, delete, select, login.
type fakeGateway struct {
	mu       gosync.Mutex
	records  []order.Order
	ids      []string
	seq      int
	errs     map[string][]error
	calls    []string
	profiles []profile.Profile
	token    string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{errs: make(map[string][]error)}
}

func (f *fakeGateway) failNext(method string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = append(f.errs[method], errs...)
}

func (f *fakeGateway) pop(method string) error {
	q := f.errs[method]
	if len(q) == 0 {
		return nil
	}
	f.errs[method] = q[1:]
	return q[0]
}

func (f *fakeGateway) newID() string {
	if len(f.ids) > 0 {
		id := f.ids[0]
		f.ids = f.ids[1:]
		return id
	}
	f.seq++
	return "r" + strconv.Itoa(f.seq)
}

func (f *fakeGateway) seed(recs ...order.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recs...)
}

func (f *fakeGateway) snapshot() []order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]order.Order(nil), f.records...)
}

func (f *fakeGateway) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) Insert(_ context.Context, rec order.Order) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "insert")
	if err := f.pop("insert"); err != nil {
		return order.Order{}, err
	}
	rec.ID = order.Durable(f.newID())
	// владельца сервер берет из токена, а не из тела запроса
	if f.token != "" {
		rec.OwnerID = strings.TrimPrefix(f.token, "token-")
	}
	rec.Files = append([]string(nil), rec.Files...)
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeGateway) Update(_ context.Context, id order.ID, p order.Patch) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "update:"+id.String())
	if err := f.pop("update"); err != nil {
		return order.Order{}, err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i] = p.Apply(f.records[i])
			return f.records[i], nil
		}
	}
	return order.Order{}, sync.DataError(order.ErrNotFound)
}

func (f *fakeGateway) Delete(_ context.Context, id order.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "delete:"+id.String())
	if err := f.pop("delete"); err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return sync.DataError(order.ErrNotFound)
}

func (f *fakeGateway) SelectByOwner(_ context.Context, ownerID string, ascending bool) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "select")
	if err := f.pop("select"); err != nil {
		return nil, err
	}
	var out []order.Order
	for _, r := range f.records {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeGateway) Login(_ context.Context, pin, profileID string) (profile.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.pop("login"); err != nil {
		return profile.LoginResponse{}, err
	}
	p, err := profile.MatchPin(f.profiles, pin, profileID)
	if err != nil {
		return profile.LoginResponse{}, sync.DataError(err)
	}
	return profile.LoginResponse{Token: "token-" + p.ID, Profile: p}, nil
}

func (f *fakeGateway) ListProfiles(context.Context) ([]profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.pop("profiles"); err != nil {
		return nil, err
	}
	out := make([]profile.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p.Public())
	}
	return out, nil
}

func (f *fakeGateway) ChangePin(context.Context, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pop("pin")
}

func (f *fakeGateway) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeGateway) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pop("ping")
}

// fakeSession - вход с токеном. Пустой owner - входа нет.
type fakeSession struct {
	mu    gosync.Mutex
	gw    *fakeGateway
	owner string
}

func (f *fakeSession) Active() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.owner == "" {
		f.gw.SetToken("")
		return "", false
	}
	f.gw.SetToken("token-" + f.owner)
	return f.owner, true
}

func (f *fakeSession) login(owner string) {
	f.mu.Lock()
	f.owner = owner
	f.mu.Unlock()
}

type engine struct {
	gw      *fakeGateway
	session *fakeSession
	store   *MemoryStorage
	cache   *Cache
	queue   *Queue
	monitor *Monitor
	svc     *SyncService
}

func newEngine(online bool) *engine {
	log := testLogger()
	gw := newFakeGateway()
	store := NewMemoryStorage()
	cache := NewCache(store, log)
	queue := NewQueue(store, log)
	monitor := NewMonitor(online, 0, log)
	session := &fakeSession{gw: gw, owner: "u1"}
	svc := NewSyncService(gw, session, cache, queue, monitor, SyncConfig{
		Retry:          sync.RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		RequestTimeout: time.Second,
		MaxAttempts:    3,
	}, log)

	return &engine{gw: gw, session: session, store: store, cache: cache, queue: queue, monitor: monitor, svc: svc}
}

func draft(number string, revenue, fee, material, helper, fuel int64) order.Draft {
	return order.Draft{
		Number:   number,
		Client:   "Novák",
		Revenue:  decimalOf(revenue),
		Fee:      decimalOf(fee),
		Material: decimalOf(material),
		Helper:   decimalOf(helper),
		Fuel:     decimalOf(fuel),
	}
}

func decimalOf(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
