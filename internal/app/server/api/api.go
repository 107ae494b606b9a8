// Удаленное хранилище заказов PaintPro.
//
// GET    /api/v1/health          # проба соединения (публичный)
// GET    /api/v1/profiles        # профили для экрана входа (публичный)
// POST   /api/v1/auth/login      # вход по PIN (публичный)
// POST   /api/v1/auth/pin        # смена PIN (auth)
// POST   /api/v1/profiles        # создать профиль (admin)
// DELETE /api/v1/profiles/{id}   # удалить профиль (admin)
// GET    /api/v1/orders          # заказы профиля (auth)
// POST   /api/v1/orders          # создать заказ (auth)
// PATCH  /api/v1/orders/{id}     # изменить заказ (auth)
// DELETE /api/v1/orders/{id}     # удалить заказ (auth)
package api

import (
	"path"
	"reflect"
	"strings"
	"unicode"

	healthAPI "paintpro/internal/app/server/api/http/health"
	"paintpro/internal/app/server/api/http/middleware"
	"paintpro/internal/app/server/api/http/middleware/auth"
	"paintpro/internal/app/server/api/http/middleware/logger"
	"paintpro/internal/app/server/api/http/middleware/ratelimit"
	orderAPI "paintpro/internal/app/server/api/http/order"
	profileAPI "paintpro/internal/app/server/api/http/profile"
	"paintpro/internal/domain/order"
	"paintpro/internal/domain/profile"
	"paintpro/internal/domain/session"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

// Services - доменные сервисы, которые обслуживает API
type Services struct {
	DB       healthAPI.Pinger
	Orders   order.Servicer
	Profiles profile.Servicer
	Sessions session.Servicer
	Limiter  *ratelimit.Limiter
}

type Handlers struct {
	Health  *healthAPI.Handler
	Profile *profileAPI.Handler
	Order   *orderAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(svc Services, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("PaintPro API", "1.0.0")
	config.Components.Schemas = huma.NewMapRegistry("#/components/schemas/", schemaName)
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(svc, log)
	h.Health.SetupRoutes(API)
	h.Profile.SetupRoutes(API)
	h.Order.SetupRoutes(API)

	return mux
}

// schemaName добавляет имя доменного пакета к имени схемы:
// order.CreateRequest и profile.CreateRequest не должны совпадать.
func schemaName(t reflect.Type, hint string) string {
	name := huma.DefaultSchemaNamer(t, hint)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || !strings.Contains(t.PkgPath(), "/internal/domain/") {
		return name
	}
	pkg := []rune(path.Base(t.PkgPath()))
	pkg[0] = unicode.ToUpper(pkg[0])
	prefix := string(pkg)
	if strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

func handlers(svc Services, log *slog.Logger) *Handlers {
	authMW := auth.New(svc.Sessions, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	// лимит не касается пробы соединения
	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(svc.DB, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	if svc.Limiter != nil {
		middlewares.Add(svc.Limiter.Middleware())
	}
	public := middlewares.GetAllAndClear()

	middlewares.Add(loggerMW.Middleware())
	if svc.Limiter != nil {
		middlewares.Add(svc.Limiter.Middleware())
	}
	middlewares.Add(authMW.Middleware())
	private := middlewares.GetAllAndClear()

	profileHandler := profileAPI.NewHandler(svc.Profiles, svc.Sessions, log, public, private)
	orderHandler := orderAPI.NewHandler(svc.Orders, log, private)

	return &Handlers{
		Health:  healthHandler,
		Profile: profileHandler,
		Order:   orderHandler,
	}
}
