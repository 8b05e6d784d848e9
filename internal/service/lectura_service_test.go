package service

import (
	"context"
	"errors"
	"testing"

	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// cadena registers three confirmed readings (master) on days 1..3 of March:
//
//	d1: 1000/200/50  → neto_final  750
//	d2: 1500/300/0   → neto_final 1200
//	d3: 2000/400/100 → neto_final 1500
func cadena(t *testing.T, e *entorno, svc LecturaService) [3]*dto.LecturaResponse {
	t.Helper()
	ctx := context.Background()
	var out [3]*dto.LecturaResponse
	reqs := []dto.CrearLecturaRequest{
		crearReq(e.maquina, "2025-03-01", "1000", "200", "50"),
		crearReq(e.maquina, "2025-03-02", "1500", "300", "0"),
		crearReq(e.maquina, "2025-03-03", "2000", "400", "100"),
	}
	for i, r := range reqs {
		resp, err := svc.Crear(ctx, master(), r)
		require.NoError(t, err)
		out[i] = resp
	}
	return out
}

func TestCrearLectura_CajeroQuedaPendiente(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()

	resp, err := svc.Crear(context.Background(), cajero(e.sede), crearReq(e.maquina, "", "1000", "200", "50"))
	require.NoError(t, err)

	assert.False(t, resp.Confirmado)
	assert.Nil(t, resp.FechaConfirmacion)
	assert.Nil(t, resp.CierreID)
	assert.Equal(t, "2025-03-10", resp.Fecha, "empty fecha means today")
	assert.Equal(t, e.sede.ID.String(), resp.SucursalID, "branch comes from the machine")
	assert.Equal(t, "1001", resp.MaquinaNDI)
	assertDec(t, "0", resp.NetoInicial)
	assertDec(t, "750", resp.NetoFinal)
	assertDec(t, "750", resp.TotalCreditos)
	assertDec(t, "375", resp.TotalRecaudo)
	assertDec(t, "750", e.ultimoNeto(t, e.maquina.ID))
}

func TestCrearLectura_MasterConfirmaAlCrear(t *testing.T) {
	e := nuevoEntorno(t)
	resp, err := e.lecturaService().Crear(context.Background(), master(), crearReq(e.maquina, "2025-03-01", "100", "0", "0"))
	require.NoError(t, err)
	assert.True(t, resp.Confirmado)
	require.NotNil(t, resp.FechaConfirmacion)
	assert.True(t, resp.FechaConfirmacion.Equal(ahoraFijo))
}

func TestCrearLectura_NetoInicialSoloParaAdministradores(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()
	cadena(t, e, svc)

	req := crearReq(e.maquina, "", "1600", "0", "0")
	req.NetoInicial = decPtr("999")
	resp, err := svc.Crear(ctx, cajero(e.sede), req)
	require.NoError(t, err)
	assertDec(t, "1500", resp.NetoInicial, "cajero carry-in always comes from the machine")
	assertDec(t, "100", resp.TotalCreditos)

	otra := e.nuevaMaquina(t, e.sede.ID, "1002")
	req = crearReq(otra, "", "500", "0", "0")
	req.NetoInicial = decPtr("100")
	resp, err = svc.Crear(ctx, sucursalAdmin(e.sede), req)
	require.NoError(t, err)
	assertDec(t, "100", resp.NetoInicial)
	assertDec(t, "400", resp.TotalCreditos)
	assertDec(t, "200", resp.TotalRecaudo)
	assert.False(t, resp.Confirmado)
}

func TestCrearLectura_Rechazos(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()
	cadena(t, e, svc)

	inactiva := e.nuevaMaquina(t, e.sede.ID, "1003")
	inactiva.Activa = false
	require.NoError(t, e.maquinas.Update(ctx, inactiva))

	negativo := crearReq(e.maquina, "", "-1", "0", "0")
	sinEntrada := crearReq(e.maquina, "", "1", "0", "0")
	sinEntrada.Entrada = nil
	netoNegativo := crearReq(e.maquina, "", "1", "0", "0")
	netoNegativo.NetoInicial = decPtr("-5")
	fechaMala := crearReq(e.maquina, "10/03/2025", "1", "0", "0")
	milesimas := crearReq(e.maquina, "", "0.125", "0", "0")
	netoFino := crearReq(e.maquina, "", "1", "0", "0")
	netoFino.NetoInicial = decPtr("1500.001")

	cases := []struct {
		name string
		a    func() error
		want ErrorKind
	}{
		{"negative counter", func() error { _, err := svc.Crear(ctx, master(), negativo); return err }, KindValidation},
		{"missing entrada", func() error { _, err := svc.Crear(ctx, master(), sinEntrada); return err }, KindValidation},
		{"negative neto_inicial", func() error { _, err := svc.Crear(ctx, master(), netoNegativo); return err }, KindValidation},
		{"bad date", func() error { _, err := svc.Crear(ctx, master(), fechaMala); return err }, KindValidation},
		{"counter below cents", func() error { _, err := svc.Crear(ctx, master(), milesimas); return err }, KindValidation},
		{"neto_inicial below cents", func() error { _, err := svc.Crear(ctx, master(), netoFino); return err }, KindValidation},
		{"inactive machine", func() error {
			_, err := svc.Crear(ctx, master(), crearReq(inactiva, "", "1", "0", "0"))
			return err
		}, KindValidation},
		{"unknown machine", func() error {
			req := crearReq(e.maquina, "", "1", "0", "0")
			req.MaquinaID = uuid.NewString()
			_, err := svc.Crear(ctx, master(), req)
			return err
		}, KindNotFound},
		{"other branch", func() error {
			_, err := svc.Crear(ctx, cajero(e.vecina), crearReq(e.maquina, "", "1", "0", "0"))
			return err
		}, KindForbidden},
		{"same day already confirmed", func() error {
			_, err := svc.Crear(ctx, master(), crearReq(e.maquina, "2025-03-03", "2100", "0", "0"))
			return err
		}, KindConflict},
		{"earlier than latest", func() error {
			_, err := svc.Crear(ctx, master(), crearReq(e.maquina, "2025-02-28", "10", "0", "0"))
			return err
		}, KindConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requireKind(t, tc.want, tc.a())
		})
	}
	assertDec(t, "1500", e.ultimoNeto(t, e.maquina.ID), "rejections leave the registry untouched")
}

func TestCrearLectura_UnaPendientePorMaquina(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()

	_, err := svc.Crear(ctx, cajero(e.sede), crearReq(e.maquina, "2025-03-09", "100", "0", "0"))
	require.NoError(t, err)

	_, err = svc.Crear(ctx, cajero(e.sede), crearReq(e.maquina, "2025-03-10", "200", "0", "0"))
	requireKind(t, KindConflict, err)
}

// ── Editar / cascade ─────────────────────────────────────────────────────────

func TestEditarLectura_RecalculaPosteriores(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	l := cadena(t, e, svc)

	res, err := svc.Editar(context.Background(), master(), uuid.MustParse(l[0].ID), dto.EditarLecturaRequest{
		Entrada: decPtr("1100"), Salida: decPtr("200"), Jackpots: decPtr("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Recalculadas)
	assertDec(t, "850", res.Lectura.NetoFinal)
	assertDec(t, "850", res.Lectura.TotalCreditos)
	assertDec(t, "425", res.Lectura.TotalRecaudo)

	d2 := e.leer(t, l[1].ID)
	assertDec(t, "1500", d2.Entrada, "raw counters of later rows never change")
	assertDec(t, "300", d2.Salida)
	assertDec(t, "850", d2.NetoInicial)
	assertDec(t, "1200", d2.NetoFinal)
	assertDec(t, "350", d2.TotalCreditos)
	assertDec(t, "175", d2.TotalRecaudo)

	d3 := e.leer(t, l[2].ID)
	assertDec(t, "1200", d3.NetoInicial)
	assertDec(t, "300", d3.TotalCreditos)
	assertDec(t, "1500", e.ultimoNeto(t, e.maquina.ID))
}

func TestEditarLectura_UltimaActualizaRegistro(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	l := cadena(t, e, svc)

	res, err := svc.Editar(context.Background(), master(), uuid.MustParse(l[2].ID), dto.EditarLecturaRequest{
		Entrada: decPtr("2500"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Recalculadas)
	assertDec(t, "0", res.Lectura.Salida, "omitted counters default to zero")
	assertDec(t, "2500", res.Lectura.NetoFinal)
	assertDec(t, "2500", e.ultimoNeto(t, e.maquina.ID))
}

// lecturaRepoFalla fails GuardarCalculoTx on the n-th call.
type lecturaRepoFalla struct {
	repository.LecturaRepository
	fallarEn int
	llamadas int
}

func (r *lecturaRepoFalla) GuardarCalculoTx(tx *gorm.DB, l *model.LecturaMaquina) error {
	r.llamadas++
	if r.llamadas == r.fallarEn {
		return errors.New("disk I/O error")
	}
	return r.LecturaRepository.GuardarCalculoTx(tx, l)
}

func TestEditarLectura_FalloEnCascadaRevierteTodo(t *testing.T) {
	e := nuevoEntorno(t)
	l := cadena(t, e, e.lecturaService())

	falla := &lecturaRepoFalla{LecturaRepository: e.lecturas, fallarEn: 3}
	svc := NewLecturaService(falla, e.maquinas, e.sucursales, relojFijo)

	_, err := svc.Editar(context.Background(), master(), uuid.MustParse(l[0].ID), dto.EditarLecturaRequest{
		Entrada: decPtr("5000"),
	})
	require.Error(t, err)
	assert.Zero(t, KindOf(err), "storage failures are not business errors")

	d1 := e.leer(t, l[0].ID)
	assertDec(t, "1000", d1.Entrada)
	assertDec(t, "750", d1.NetoFinal)
	d2 := e.leer(t, l[1].ID)
	assertDec(t, "750", d2.NetoInicial)
	assertDec(t, "1500", e.ultimoNeto(t, e.maquina.ID))
}

func TestEditarLectura_Permisos(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()
	l := cadena(t, e, svc)
	editar := dto.EditarLecturaRequest{Entrada: decPtr("1000")}

	_, err := svc.Editar(ctx, sucursalAdmin(e.sede), uuid.MustParse(l[2].ID), editar)
	requireKind(t, KindForbidden, err)

	_, err = svc.Editar(ctx, master(), uuid.New(), editar)
	requireKind(t, KindNotFound, err)

	pendiente, err := svc.Crear(ctx, cajero(e.sede), crearReq(e.maquina, "", "2100", "0", "0"))
	require.NoError(t, err)
	_, err = svc.Editar(ctx, cajero(e.vecina), uuid.MustParse(pendiente.ID), editar)
	requireKind(t, KindForbidden, err)

	res, err := svc.Editar(ctx, cajero(e.sede), uuid.MustParse(pendiente.ID), dto.EditarLecturaRequest{Entrada: decPtr("2200")})
	require.NoError(t, err)
	assertDec(t, "700", res.Lectura.TotalCreditos)
}

func TestEditarLectura_CerradaSoloMaster(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()
	l := cadena(t, e, svc)

	_, err := e.lecturas.AsignarCierreTx(e.db, []uuid.UUID{uuid.MustParse(l[0].ID)}, uuid.New())
	require.NoError(t, err)

	_, err = svc.Editar(ctx, sucursalAdmin(e.sede), uuid.MustParse(l[0].ID), dto.EditarLecturaRequest{Entrada: decPtr("1")})
	requireKind(t, KindForbidden, err)

	_, err = svc.Editar(ctx, master(), uuid.MustParse(l[0].ID), dto.EditarLecturaRequest{Entrada: decPtr("900"), Salida: decPtr("200"), Jackpots: decPtr("50")})
	require.NoError(t, err)
	assertDec(t, "650", e.leer(t, l[1].ID).NetoInicial)
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func TestEliminarLectura_PendienteRestauraRegistro(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()
	cadena(t, e, svc)

	p, err := svc.Crear(ctx, cajero(e.sede), crearReq(e.maquina, "", "1800", "0", "0"))
	require.NoError(t, err)
	assertDec(t, "1800", e.ultimoNeto(t, e.maquina.ID))

	require.NoError(t, svc.Eliminar(ctx, cajero(e.sede), uuid.MustParse(p.ID)))
	assertDec(t, "1500", e.ultimoNeto(t, e.maquina.ID))

	_, err = svc.Obtener(ctx, master(), uuid.MustParse(p.ID))
	requireKind(t, KindNotFound, err)
}

func TestEliminarLectura_Rechazos(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()
	l := cadena(t, e, svc)

	err := svc.Eliminar(ctx, master(), uuid.MustParse(l[1].ID))
	requireKind(t, KindConflict, err)

	err = svc.Eliminar(ctx, sucursalAdmin(e.sede), uuid.MustParse(l[2].ID))
	requireKind(t, KindForbidden, err)

	_, err = e.lecturas.AsignarCierreTx(e.db, []uuid.UUID{uuid.MustParse(l[2].ID)}, uuid.New())
	require.NoError(t, err)
	err = svc.Eliminar(ctx, master(), uuid.MustParse(l[2].ID))
	requireKind(t, KindForbidden, err)

	assertDec(t, "1500", e.ultimoNeto(t, e.maquina.ID))
}

func TestEliminarLectura_ConfirmadaPorMaster(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	l := cadena(t, e, svc)

	require.NoError(t, svc.Eliminar(context.Background(), master(), uuid.MustParse(l[2].ID)))
	assertDec(t, "1200", e.ultimoNeto(t, e.maquina.ID))
}

// ── ConfirmarPendientes ──────────────────────────────────────────────────────

func TestConfirmarPendientes_SoloLaSucursal(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()

	propia, err := svc.Crear(ctx, cajero(e.sede), crearReq(e.maquina, "", "100", "0", "0"))
	require.NoError(t, err)
	vecina, err := svc.Crear(ctx, cajero(e.vecina), crearReq(e.maqVecina, "", "100", "0", "0"))
	require.NoError(t, err)

	res, err := svc.ConfirmarPendientes(ctx, sucursalAdmin(e.sede), dto.ConfirmarLecturasRequest{
		SucursalID: strPtr(e.vecina.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, e.sede.ID.String(), res.SucursalID, "pinned roles always confirm their own branch")
	assert.Equal(t, 1, res.Confirmadas)
	assert.True(t, res.FechaConfirmacion.Equal(ahoraFijo))

	got := e.leer(t, propia.ID)
	assert.True(t, got.Confirmado)
	require.NotNil(t, got.FechaConfirmacion)
	assert.False(t, e.leer(t, vecina.ID).Confirmado)
	assertDec(t, "100", e.ultimoNeto(t, e.maquina.ID), "confirming does not move the registry")

	_, err = svc.ConfirmarPendientes(ctx, sucursalAdmin(e.sede), dto.ConfirmarLecturasRequest{})
	requireKind(t, KindNotFound, err)
}

func TestConfirmarPendientes_AlcancePorRol(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()

	_, err := svc.Crear(ctx, cajero(e.vecina), crearReq(e.maqVecina, "", "100", "0", "0"))
	require.NoError(t, err)

	_, err = svc.ConfirmarPendientes(ctx, master(), dto.ConfirmarLecturasRequest{})
	requireKind(t, KindValidation, err)

	_, err = svc.ConfirmarPendientes(ctx, casinoAdmin(e.ajena.CasinoID), dto.ConfirmarLecturasRequest{
		SucursalID: strPtr(e.vecina.ID.String()),
	})
	requireKind(t, KindForbidden, err)

	res, err := svc.ConfirmarPendientes(ctx, casinoAdmin(e.casino.ID), dto.ConfirmarLecturasRequest{
		SucursalID: strPtr(e.vecina.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Confirmadas)
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestListarLecturas_FiltraPorEstadoYAlcance(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.lecturaService()
	ctx := context.Background()
	cadena(t, e, svc)
	_, err := svc.Crear(ctx, cajero(e.sede), crearReq(e.maquina, "", "1600", "0", "0"))
	require.NoError(t, err)

	res, err := svc.Listar(ctx, cajero(e.sede), dto.LecturaFilter{Estado: repository.EstadoPendiente})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.Limit)

	res, err = svc.Listar(ctx, cajero(e.sede), dto.LecturaFilter{Desde: "2025-03-02", Hasta: "2025-03-03"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = svc.Listar(ctx, cajero(e.vecina), dto.LecturaFilter{SucursalID: e.sede.ID.String()})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Total, "pinned roles only ever list their own branch")

	_, err = svc.Listar(ctx, master(), dto.LecturaFilter{SucursalID: e.sede.ID.String(), Desde: "ayer"})
	requireKind(t, KindValidation, err)
}
