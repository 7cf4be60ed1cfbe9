package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pokePortMarket/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestServer(guard ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	api := e.Group("/api/v1")
	SetupCardRoutes(api, rest.NewCardHandler(nil, time.Second), guard...)
	SetOrdersRoutes(api, rest.NewOrdersHandler(nil, time.Second), guard...)
	SetupUserRoutes(api, rest.NewUserHandler(nil, time.Second), guard...)
	SetupPokedexRoutes(api, rest.NewPokedexHandler(nil, time.Second))
	SetupOpsRoutes(e, rest.NewHealthHandler("test", nil))
	return e
}

func TestFixedPathsWinOverIDs(t *testing.T) {
	e := newTestServer()

	tests := []struct {
		method string
		path   string
		route  string
	}{
		{http.MethodGet, "/api/v1/cards/search", "/api/v1/cards/search"},
		{http.MethodGet, "/api/v1/cards/sets", "/api/v1/cards/sets"},
		{http.MethodGet, "/api/v1/cards/12", "/api/v1/cards/:id"},
		{http.MethodGet, "/api/v1/orders/user/0xabc", "/api/v1/orders/user/:wallet_address"},
		{http.MethodPost, "/api/v1/orders/3/confirm", "/api/v1/orders/:id/confirm"},
		{http.MethodPut, "/api/v1/orders/3/status", "/api/v1/orders/:id/status"},
		{http.MethodPost, "/api/v1/orders/3/cancel", "/api/v1/orders/:id/cancel"},
		{http.MethodPut, "/api/v1/users/wallet/0xabc/display-name", "/api/v1/users/wallet/:wallet_address/display-name"},
		{http.MethodGet, "/api/v1/users/wallet/0xabc", "/api/v1/users/wallet/:wallet_address"},
		{http.MethodGet, "/api/v1/daily-catch/today", "/api/v1/daily-catch/today"},
		{http.MethodPost, "/api/v1/daily-catch/catch", "/api/v1/daily-catch/catch"},
		{http.MethodPost, "/api/v1/pokedex/check-badges", "/api/v1/pokedex/check-badges"},
		{http.MethodGet, "/api/v1/pokedex/0xabc", "/api/v1/pokedex/:wallet_address"},
		{http.MethodGet, "/health", "/health"},
		{http.MethodGet, "/metrics", "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			c := e.NewContext(req, httptest.NewRecorder())
			e.Router().Find(tt.method, tt.path, c)
			assert.Equal(t, tt.route, c.Path())
		})
	}
}

func TestAdminGuardApplied(t *testing.T) {
	blocked := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return c.NoContent(http.StatusForbidden)
		}
	}
	e := newTestServer(blocked)

	guarded := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/cards"},
		{http.MethodPut, "/api/v1/cards/1"},
		{http.MethodDelete, "/api/v1/cards/1"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodPut, "/api/v1/orders/1/status"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/1"},
		{http.MethodPut, "/api/v1/users/1"},
		{http.MethodDelete, "/api/v1/users/1"},
	}

	for _, g := range guarded {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(g.method, g.path, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", g.method, g.path)
	}
}
