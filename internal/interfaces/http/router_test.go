package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
	"github.com/jhoicas/pharma-stock-api/internal/application/usecase"
	"github.com/jhoicas/pharma-stock-api/internal/infrastructure/cache"
	apphttp "github.com/jhoicas/pharma-stock-api/internal/interfaces/http"
)

// newRouterApp monta el router completo; solo las preferencias tienen caso de uso real.
// Las demás rutas se prueban en los caminos que responden antes de llegar al caso de uso.
func newRouterApp() *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		PreferenceUC: usecase.NewPreferenceUseCase(cache.NewMemoryStore(), 0),
		JWTSecret:    testJWTSecret,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, auth, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_Preferencias(t *testing.T) {
	app := newRouterApp()
	tok := tokenForRole(t, "mr")

	resp := send(t, app, http.MethodGet, "/api/preferences/stock_positions", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prefs dto.ViewPreferences
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prefs))
	resp.Body.Close()
	assert.Equal(t, "stock_positions", prefs.View)
	assert.Empty(t, prefs.Columns)

	resp = send(t, app, http.MethodPut, "/api/preferences/stock_positions", tok, `{"batch":false,"expiry":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = send(t, app, http.MethodGet, "/api/preferences/stock_positions", tok, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prefs))
	resp.Body.Close()
	assert.Equal(t, map[string]bool{"batch": false, "expiry": true}, prefs.Columns)

	resp = send(t, app, http.MethodGet, "/api/preferences/Stock!", tok, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestRouter_SinTokenRetorna401(t *testing.T) {
	app := newRouterApp()
	resp := send(t, app, http.MethodGet, "/api/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestRouter_PermisosPorRol(t *testing.T) {
	app := newRouterApp()
	cases := []struct {
		name, method, path, role string
	}{
		{"mr no registra transacciones", http.MethodPost, "/api/stock/transactions", "mr"},
		{"mr no ve proveedores", http.MethodGet, "/api/suppliers", "mr"},
		{"mr no ve compras", http.MethodGet, "/api/purchases", "mr"},
		{"godown no reconstruye", http.MethodPost, "/api/stock/rebuild", "godown"},
		{"godown no borra productos", http.MethodDelete, "/api/products/x", "godown"},
		{"godown no crea bodegas", http.MethodPost, "/api/godowns", "godown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := send(t, app, tc.method, tc.path, tokenForRole(t, tc.role), "")
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

func TestRouter_MRSoloSuUbicacion(t *testing.T) {
	app := newRouterApp()
	tok := tokenForRole(t, "mr")
	paths := []string{
		"/api/stock/balances?location_type=GODOWN",
		"/api/stock/positions?location_type=MR&location_id=otro",
		"/api/stock/transactions?location_id=otro",
		"/api/stock/alerts?location_type=godown",
		"/api/reports/stock.xlsx?location_type=GODOWN",
		"/api/medical-reps/otro",
	}
	for _, p := range paths {
		resp := send(t, app, http.MethodGet, p, tok, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, p)
		resp.Body.Close()
	}
}

func TestRouter_ValidacionesAntesDelCasoDeUso(t *testing.T) {
	app := newRouterApp()

	resp := send(t, app, http.MethodPost, "/api/auth/login", "", `{"email":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)

	resp = send(t, app, http.MethodGet, "/api/stock/positions?expiry_from=31-12-2024", tokenForRole(t, "admin"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_DATE", decodeError(t, resp).Code)

	resp = send(t, app, http.MethodPost, "/api/products", tokenForRole(t, "godown"), `{"name":"Paracetamol"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}
