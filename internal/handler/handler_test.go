package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/apierror"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/middleware"
	"gamblerpro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Fakes ────────────────────────────────────────────────────────────────────

type lecturaServiceFake struct {
	err       error
	crearReq  dto.CrearLecturaRequest
	confirmar *dto.ConfirmarLecturasRequest
	actor     actor.Actor
}

var _ service.LecturaService = (*lecturaServiceFake)(nil)

func (f *lecturaServiceFake) Crear(_ context.Context, a actor.Actor, req dto.CrearLecturaRequest) (*dto.LecturaResponse, error) {
	f.actor, f.crearReq = a, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.LecturaResponse{ID: uuid.NewString(), MaquinaID: req.MaquinaID}, nil
}

func (f *lecturaServiceFake) Editar(_ context.Context, _ actor.Actor, id uuid.UUID, _ dto.EditarLecturaRequest) (*dto.EdicionLecturaResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EdicionLecturaResponse{Lectura: dto.LecturaResponse{ID: id.String()}, Recalculadas: 2}, nil
}

func (f *lecturaServiceFake) Eliminar(context.Context, actor.Actor, uuid.UUID) error { return f.err }

func (f *lecturaServiceFake) ConfirmarPendientes(_ context.Context, _ actor.Actor, req dto.ConfirmarLecturasRequest) (*dto.ConfirmacionResponse, error) {
	f.confirmar = &req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ConfirmacionResponse{Confirmadas: 3}, nil
}

func (f *lecturaServiceFake) Obtener(_ context.Context, _ actor.Actor, id uuid.UUID) (*dto.LecturaResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.LecturaResponse{ID: id.String()}, nil
}

func (f *lecturaServiceFake) Listar(context.Context, actor.Actor, dto.LecturaFilter) (*dto.LecturaListResponse, error) {
	return &dto.LecturaListResponse{Data: []dto.LecturaResponse{}}, f.err
}

type cierreServiceFake struct{ err error }

var _ service.CierreService = (*cierreServiceFake)(nil)

func (f *cierreServiceFake) CerrarSucursal(_ context.Context, _ actor.Actor, req dto.CerrarSucursalRequest) (*dto.CierreResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CierreResponse{ID: uuid.NewString(), TotalCierre: decimal.NewFromInt(649)}, nil
}

func (f *cierreServiceFake) Obtener(context.Context, actor.Actor, uuid.UUID) (*dto.CierreDetalleResponse, error) {
	return nil, f.err
}

func (f *cierreServiceFake) Listar(context.Context, actor.Actor, string, int, int) (*dto.CierreListResponse, error) {
	return &dto.CierreListResponse{}, f.err
}

// ── Harness ──────────────────────────────────────────────────────────────────

var cajeroPrueba = actor.Actor{UsuarioID: uuid.New(), Rol: actor.RolCajero}

func conActor(a actor.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActorKey, a)
		c.Next()
	}
}

func nuevoRouter(lecturas service.LecturaService, cierres service.CierreService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(), conActor(cajeroPrueba))

	lh := NewLecturasHandler(lecturas)
	r.POST("/v1/lecturas", lh.Crear)
	r.POST("/v1/lecturas/confirmar", lh.Confirmar)
	r.GET("/v1/lecturas/:id", lh.Obtener)
	r.PUT("/v1/lecturas/:id", lh.Editar)
	r.DELETE("/v1/lecturas/:id", lh.Eliminar)

	ch := NewCierresHandler(cierres)
	r.POST("/v1/cierres", ch.Cerrar)
	return r
}

func hacer(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodificar[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCrearLectura_Created(t *testing.T) {
	fake := &lecturaServiceFake{}
	r := nuevoRouter(fake, &cierreServiceFake{})
	maquina := uuid.NewString()

	w := hacer(r, http.MethodPost, "/v1/lecturas", map[string]any{
		"maquina_id": maquina,
		"entrada":    "1000.50",
		"salida":     0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, cajeroPrueba.UsuarioID, fake.actor.UsuarioID, "the actor comes from the auth context")
	require.NotNil(t, fake.crearReq.Entrada)
	assert.True(t, fake.crearReq.Entrada.Equal(decimal.RequireFromString("1000.5")))
	assert.Nil(t, fake.crearReq.Jackpots)
}

func TestCrearLectura_ValidacionDeCampos(t *testing.T) {
	r := nuevoRouter(&lecturaServiceFake{}, &cierreServiceFake{})

	w := hacer(r, http.MethodPost, "/v1/lecturas", map[string]any{"maquina_id": "no-uuid", "entrada": -5})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodificar[apierror.ValidationError](t, w)
	assert.Equal(t, "uuid", body.Fields["MaquinaID"])
	assert.Equal(t, "min", body.Fields["Entrada"])

	w = hacer(r, http.MethodPost, "/v1/lecturas", map[string]any{"maquina_id": uuid.NewString()})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "required", decodificar[apierror.ValidationError](t, w).Fields["Entrada"])
}

func TestCrearLectura_JSONInvalido(t *testing.T) {
	r := nuevoRouter(&lecturaServiceFake{}, &cierreServiceFake{})
	req := httptest.NewRequest(http.MethodPost, "/v1/lecturas", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResponderError_MapeaTipos(t *testing.T) {
	cases := []struct {
		kind   service.ErrorKind
		status int
		code   string
	}{
		{service.KindValidation, http.StatusUnprocessableEntity, "validation"},
		{service.KindNotFound, http.StatusNotFound, "not_found"},
		{service.KindConflict, http.StatusConflict, "conflict"},
		{service.KindForbidden, http.StatusForbidden, "forbidden"},
		{service.KindNothingToClose, http.StatusUnprocessableEntity, "nothing_to_close"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := &service.Error{Kind: tc.kind, Msg: "rechazado"}
			r := nuevoRouter(&lecturaServiceFake{err: err}, &cierreServiceFake{err: err})

			w := hacer(r, http.MethodPost, "/v1/cierres", nil)
			require.Equal(t, tc.status, w.Code)
			body := decodificar[apierror.APIError](t, w)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, "rechazado", body.Detail)
		})
	}
}

func TestResponderError_ErrorInternoNoSeFiltra(t *testing.T) {
	r := nuevoRouter(&lecturaServiceFake{err: errors.New("pq: connection refused")}, &cierreServiceFake{})

	w := hacer(r, http.MethodGet, "/v1/lecturas/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestLecturas_IDInvalido(t *testing.T) {
	r := nuevoRouter(&lecturaServiceFake{}, &cierreServiceFake{})
	assert.Equal(t, http.StatusBadRequest, hacer(r, http.MethodDelete, "/v1/lecturas/123", nil).Code)
	assert.Equal(t, http.StatusBadRequest, hacer(r, http.MethodPut, "/v1/lecturas/abc", map[string]any{"entrada": 1}).Code)
}

func TestEditarYEliminar(t *testing.T) {
	r := nuevoRouter(&lecturaServiceFake{}, &cierreServiceFake{})
	id := uuid.NewString()

	w := hacer(r, http.MethodPut, "/v1/lecturas/"+id, map[string]any{"entrada": 0})
	require.Equal(t, http.StatusOK, w.Code, "a zero counter is still a value")
	assert.Equal(t, 2, decodificar[dto.EdicionLecturaResponse](t, w).Recalculadas)

	assert.Equal(t, http.StatusNoContent, hacer(r, http.MethodDelete, "/v1/lecturas/"+id, nil).Code)
}

func TestConfirmar_CuerpoOpcional(t *testing.T) {
	fake := &lecturaServiceFake{}
	r := nuevoRouter(fake, &cierreServiceFake{})

	req := httptest.NewRequest(http.MethodPost, "/v1/lecturas/confirmar", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, fake.confirmar)
	assert.Nil(t, fake.confirmar.SucursalID)

	sucursal := uuid.NewString()
	w = hacer(r, http.MethodPost, "/v1/lecturas/confirmar", map[string]any{"sucursal_id": sucursal})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, fake.confirmar.SucursalID)
	assert.Equal(t, sucursal, *fake.confirmar.SucursalID)
}

func TestCerrar_Created(t *testing.T) {
	r := nuevoRouter(&lecturaServiceFake{}, &cierreServiceFake{})
	w := hacer(r, http.MethodPost, "/v1/cierres", map[string]any{"observaciones": "fin de mes"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodificar[dto.CierreResponse](t, w).TotalCierre.Equal(decimal.NewFromInt(649)))
}
