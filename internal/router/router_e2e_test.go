//go:build integration

// Run with: go test -tags integration ./internal/router/... -v
package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gamblerpro/internal/config"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/infra"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"
	"gamblerpro/internal/router"
	"gamblerpro/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func do(t *testing.T, srv *httptest.Server, method, path string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
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

// ── Environment ──────────────────────────────────────────────────────────────

type testEnv struct {
	server   *httptest.Server
	db       *gorm.DB
	rdb      *redis.Client
	sucursal *model.Sucursal
	maquina  *model.Maquina
	tipo     *model.TipoGasto
	master   string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("gamblerpro_test"),
		tcPostgres.WithUsername("gamblerpro"),
		tcPostgres.WithPassword("gamblerpro"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase(pgURL)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	mg, err := infra.NewMigrator(sqlDB, "../../migrations")
	require.NoError(t, err)
	require.NoError(t, mg.Up())

	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		CierreLockTTL:      10 * time.Second,
		CORSOrigins:        "*",
	}

	env := &testEnv{db: db, rdb: rdb}
	env.seed(t)
	env.server = httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(env.server.Close)
	env.master = env.login(t, "master", "master-pass")
	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	sucursales := repository.NewSucursalRepository(e.db)

	casino := &model.Casino{Nombre: "Casino E2E"}
	require.NoError(t, sucursales.CreateCasino(ctx, casino))
	e.sucursal = &model.Sucursal{CasinoID: casino.ID, Nombre: "Sede E2E", Activo: true}
	require.NoError(t, sucursales.Create(ctx, e.sucursal))

	e.maquina = &model.Maquina{NDI: "E2E-1", SucursalID: e.sucursal.ID, Nombre: "Slot E2E", Denominacion: decimal.RequireFromString("0.50"), Activa: true}
	require.NoError(t, repository.NewMaquinaRepository(e.db).Create(ctx, e.maquina))

	e.tipo = &model.TipoGasto{Nombre: "Servicios"}
	require.NoError(t, repository.NewGastoRepository(e.db).CreateTipo(ctx, e.tipo))

	hash, err := bcrypt.GenerateFromPassword([]byte("master-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repository.NewUsuarioRepository(e.db).Create(ctx, &model.Usuario{
		Username: "master", Nombre: "Master", PasswordHash: string(hash), Rol: "master_admin", Activo: true,
	}))
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := do(t, e.server, http.MethodPost, "/v1/auth/login", dto.LoginRequest{Username: username, Password: password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decodeJSON(t, resp, &out)
	return out.AccessToken
}

// ── Flow ─────────────────────────────────────────────────────────────────────

func TestE2E_LecturasGastosYCierre(t *testing.T) {
	e := setupTestEnv(t)
	sucursalID := e.sucursal.ID.String()

	resp := do(t, e.server, http.MethodPost, "/v1/usuarios", dto.CrearUsuarioRequest{
		Username: "caja1", Nombre: "Cajero Uno", Password: "caja1-pass", Rol: "cajero", SucursalID: &sucursalID,
	}, e.master)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	cajero := e.login(t, "caja1", "caja1-pass")

	// Master reading yesterday is confirmed on insert.
	ayer := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	resp = do(t, e.server, http.MethodPost, "/v1/lecturas", map[string]any{
		"maquina_id": e.maquina.ID.String(), "fecha": ayer, "entrada": "1000", "salida": "200", "jackpots": "50",
	}, e.master)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var primera dto.LecturaResponse
	decodeJSON(t, resp, &primera)
	assert.True(t, primera.Confirmado)

	// Cajero reading today carries in 750 and stays pending.
	resp = do(t, e.server, http.MethodPost, "/v1/lecturas", map[string]any{
		"maquina_id": e.maquina.ID.String(), "entrada": "1600", "neto_inicial": "5",
	}, cajero)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var segunda dto.LecturaResponse
	decodeJSON(t, resp, &segunda)
	assert.False(t, segunda.Confirmado)
	assert.True(t, segunda.NetoInicial.Equal(decimal.NewFromInt(750)))

	resp = do(t, e.server, http.MethodPost, "/v1/lecturas", map[string]any{
		"maquina_id": e.maquina.ID.String(), "entrada": "1700",
	}, cajero)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "one pending reading per machine")
	resp.Body.Close()

	// Master corrects yesterday: the pending reading is re-derived.
	resp = do(t, e.server, http.MethodPut, "/v1/lecturas/"+primera.ID, map[string]any{
		"entrada": "1100", "salida": "200", "jackpots": "50",
	}, e.master)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var edit dto.EdicionLecturaResponse
	decodeJSON(t, resp, &edit)
	assert.Equal(t, 1, edit.Recalculadas)

	// Expense.
	resp = do(t, e.server, http.MethodPost, "/v1/proveedores", map[string]any{"sucursal_id": sucursalID, "nombre": "Energia SA"}, e.master)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prov dto.ProveedorResponse
	decodeJSON(t, resp, &prov)

	resp = do(t, e.server, http.MethodPost, "/v1/gastos", map[string]any{
		"tipo_gasto_id": e.tipo.ID.String(), "proveedor_id": prov.ID, "valor": "100.25",
	}, cajero)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Close: 425 + (1600-850)*0.5 = 800 collected, 100.25 spent.
	resp = do(t, e.server, http.MethodPost, "/v1/cierres", map[string]any{"observaciones": "e2e"}, cajero)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cierre dto.CierreResponse
	decodeJSON(t, resp, &cierre)
	assert.Equal(t, 2, cierre.CantLecturas)
	assert.Equal(t, 1, cierre.CantGastos)
	assert.True(t, cierre.TotalRecaudado.Equal(decimal.NewFromInt(800)), cierre.TotalRecaudado.String())
	assert.True(t, cierre.TotalCierre.Equal(decimal.RequireFromString("699.75")), cierre.TotalCierre.String())

	resp = do(t, e.server, http.MethodPost, "/v1/cierres", nil, cajero)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var apiErr struct {
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &apiErr)
	assert.Equal(t, "nothing_to_close", apiErr.Code)

	resp = do(t, e.server, http.MethodDelete, "/v1/lecturas/"+segunda.ID, nil, e.master)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "closed readings can never be deleted")
	resp.Body.Close()

	n, err := e.rdb.LLen(context.Background(), worker.QueueCierres).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "the closing enqueued one notification")
}

func TestE2E_CierresConcurrentes(t *testing.T) {
	e := setupTestEnv(t)
	sucursalID := e.sucursal.ID.String()

	resp := do(t, e.server, http.MethodPost, "/v1/lecturas", map[string]any{
		"maquina_id": e.maquina.ID.String(), "entrada": "500",
	}, e.master)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	const n = 5
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := do(t, e.server, http.MethodPost, "/v1/cierres", map[string]any{"sucursal_id": sucursalID}, e.master)
			codes[i] = r.StatusCode
			r.Body.Close()
		}(i)
	}
	wg.Wait()

	creados := 0
	for _, c := range codes {
		switch c {
		case http.StatusCreated:
			creados++
		case http.StatusConflict, http.StatusUnprocessableEntity:
		default:
			t.Fatalf("unexpected status %d", c)
		}
	}
	assert.Equal(t, 1, creados, "a reading is absorbed by exactly one closing")

	var total int64
	require.NoError(t, e.db.Model(&model.CierreCaja{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}
