//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - Login → abrir caja → registrar ingresos → cerrar → verificar diferencia
//   - Edición de cierre supervisado
//   - CRUD de clientes con baja confirmada
//   - Gastos imputados a la caja abierta + resumen

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"caffito/internal/config"
	"caffito/internal/infra"
	"caffito/internal/router"
	"caffito/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("caffito_test"),
		tcPostgres.WithUsername("caffito"),
		tcPostgres.WithPassword("caffito"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("caffito2026"), bcrypt.MinCost)
	require.NoError(t, err)
	err = db.Exec(`INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at)
		VALUES (gen_random_uuid(), 'admin@e2e.test', 'Admin E2E', ?, 'administrador', true, NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "caffito2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{
		server: srv,
		token:  loginBody.AccessToken,
		engine: r,
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCompletoDeCaja(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Abrir caja
	abrirResp := do(t, env.server, "POST", "/v1/cajas",
		jsonBody(t, map[string]any{
			"punto_de_venta":        1,
			"punto_de_venta_nombre": "Sucursal Centro",
			"inicio":                "5000",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	var caja struct {
		ID        string `json:"id"`
		EnProceso bool   `json:"enproceso"`
	}
	decodeJSON(t, abrirResp, &caja)
	assert.True(t, caja.EnProceso)

	// 2. Registrar ingresos: 600 efectivo + 400 débito
	for _, ingreso := range []map[string]any{
		{"tipo_pago_id": 1, "monto": "600", "descripcion": "venta mostrador"},
		{"tipo_pago_id": 2, "monto": "400", "descripcion": "venta con tarjeta"},
	} {
		resp := do(t, env.server, "POST", "/v1/cajas/ingresos", jsonBody(t, ingreso), env.token)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	// 3. Caja actual refleja el total acumulado
	actualResp := do(t, env.server, "GET", "/v1/cajas/actual", nil, env.token)
	require.Equal(t, http.StatusOK, actualResp.StatusCode)
	var actual struct {
		Ingresos string `json:"ingresos"`
	}
	decodeJSON(t, actualResp, &actual)
	assert.Equal(t, "1000", actual.Ingresos)

	// 4. Cerrar declarando exactamente lo registrado
	cerrarResp := do(t, env.server, "PUT", "/v1/cajas/"+caja.ID+"/cerrar",
		jsonBody(t, map[string]any{
			"entradas": []map[string]any{
				{"tipo_pago_id": 1, "monto": "600"},
				{"tipo_pago_id": 2, "monto": "400"},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusOK, cerrarResp.StatusCode)
	var cierre struct {
		Total         string `json:"total"`
		Esperado      string `json:"esperado"`
		Diferencia    string `json:"diferencia"`
		Clasificacion string `json:"clasificacion"`
	}
	decodeJSON(t, cerrarResp, &cierre)
	assert.Equal(t, "1000", cierre.Total)
	assert.Equal(t, "1000", cierre.Esperado)
	assert.Equal(t, "0", cierre.Diferencia)
	assert.Equal(t, "favorable", cierre.Clasificacion)

	// 5. Ya no hay caja en proceso
	actualResp = do(t, env.server, "GET", "/v1/cajas/actual", nil, env.token)
	assert.Equal(t, http.StatusNotFound, actualResp.StatusCode)
	actualResp.Body.Close()

	// 6. La segunda apertura en el mismo PDV vuelve a ser válida
	reabrirResp := do(t, env.server, "POST", "/v1/cajas",
		jsonBody(t, map[string]any{"punto_de_venta": 1, "inicio": "0"}),
		env.token,
	)
	assert.Equal(t, http.StatusCreated, reabrirResp.StatusCode)
	reabrirResp.Body.Close()
}

func TestE2E_EdicionDeCierre(t *testing.T) {
	env := setupTestEnv(t)

	abrirResp := do(t, env.server, "POST", "/v1/cajas",
		jsonBody(t, map[string]any{"punto_de_venta": 2, "inicio": "0"}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	var caja struct {
		ID string `json:"id"`
	}
	decodeJSON(t, abrirResp, &caja)

	resp := do(t, env.server, "POST", "/v1/cajas/ingresos",
		jsonBody(t, map[string]any{"tipo_pago_id": 1, "monto": "600", "descripcion": "venta mostrador"}),
		env.token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cerrarResp := do(t, env.server, "PUT", "/v1/cajas/"+caja.ID+"/cerrar",
		jsonBody(t, map[string]any{
			"entradas": []map[string]any{{"tipo_pago_id": 1, "monto": "600"}},
		}), env.token)
	require.Equal(t, http.StatusOK, cerrarResp.StatusCode)
	cerrarResp.Body.Close()

	// Corregir el efectivo declarado 600 → 650
	editarResp := do(t, env.server, "PUT", "/v1/cajas/"+caja.ID,
		jsonBody(t, map[string]any{
			"lineas": []map[string]any{{"tipo_pago_id": 1, "ingreso": "650"}},
		}), env.token)
	require.Equal(t, http.StatusOK, editarResp.StatusCode)
	var editada struct {
		Ingresos string  `json:"ingresos"`
		Cierre   *string `json:"cierre"`
	}
	decodeJSON(t, editarResp, &editada)
	assert.Equal(t, "650", editada.Ingresos)
	require.NotNil(t, editada.Cierre)
	assert.Equal(t, "650", *editada.Cierre)
}

func TestE2E_ClientesConBajaConfirmada(t *testing.T) {
	env := setupTestEnv(t)

	crearResp := do(t, env.server, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{
			"nombre":           "María",
			"apellido":         "González",
			"numero_documento": "30123456",
		}), env.token)
	require.Equal(t, http.StatusCreated, crearResp.StatusCode)
	var cliente struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
		Activo bool   `json:"activo"`
	}
	decodeJSON(t, crearResp, &cliente)
	assert.Equal(t, "María", cliente.Nombre)
	assert.True(t, cliente.Activo)

	// Frase de confirmación incorrecta → 400, el cliente sigue activo
	bajaResp := do(t, env.server, "DELETE", "/v1/clientes/"+cliente.ID,
		jsonBody(t, map[string]any{"confirmacion": "eliminar"}), env.token)
	assert.Equal(t, http.StatusBadRequest, bajaResp.StatusCode)
	bajaResp.Body.Close()

	obtenerResp := do(t, env.server, "GET", "/v1/clientes/"+cliente.ID, nil, env.token)
	require.Equal(t, http.StatusOK, obtenerResp.StatusCode)
	var vigente struct {
		Activo bool `json:"activo"`
	}
	decodeJSON(t, obtenerResp, &vigente)
	assert.True(t, vigente.Activo)

	// Frase exacta → 204
	bajaResp = do(t, env.server, "DELETE", "/v1/clientes/"+cliente.ID,
		jsonBody(t, map[string]any{"confirmacion": "desactivar"}), env.token)
	assert.Equal(t, http.StatusNoContent, bajaResp.StatusCode)
	bajaResp.Body.Close()
}

func TestE2E_GastosImputadosYResumen(t *testing.T) {
	env := setupTestEnv(t)

	abrirResp := do(t, env.server, "POST", "/v1/cajas",
		jsonBody(t, map[string]any{"punto_de_venta": 3, "inicio": "1000"}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	abrirResp.Body.Close()

	gastoResp := do(t, env.server, "POST", "/v1/gastos",
		jsonBody(t, map[string]any{"nombre": "Hielo", "monto": "1500"}), env.token)
	require.Equal(t, http.StatusCreated, gastoResp.StatusCode)
	var gasto struct {
		ID    string `json:"id"`
		Monto string `json:"monto"`
	}
	decodeJSON(t, gastoResp, &gasto)
	assert.Equal(t, "1500", gasto.Monto)

	// La caja abierta absorbe el gasto
	actualResp := do(t, env.server, "GET", "/v1/cajas/actual", nil, env.token)
	require.Equal(t, http.StatusOK, actualResp.StatusCode)
	var actual struct {
		Gastos string `json:"gastos"`
	}
	decodeJSON(t, actualResp, &actual)
	assert.Equal(t, "1500", actual.Gastos)

	// Resumen del día incluye el gasto
	resumenResp := do(t, env.server, "GET", "/v1/gastos/summary?periodo=dia", nil, env.token)
	require.Equal(t, http.StatusOK, resumenResp.StatusCode)
	var resumen struct {
		Total string `json:"total"`
	}
	decodeJSON(t, resumenResp, &resumen)
	assert.Equal(t, "1500", resumen.Total)
}
