package service

import (
	"context"
	"testing"

	"gamblerpro/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarGasto(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.gastoService()
	ctx := context.Background()
	tipo, prov := e.tipoYProveedor(t, e.sede.ID)

	g, err := svc.Registrar(ctx, cajero(e.sede), dto.RegistrarGastoRequest{
		SucursalID:  strPtr(e.vecina.ID.String()),
		TipoGastoID: tipo.ID.String(),
		ProveedorID: prov.ID.String(),
		Valor:       decimal.RequireFromString("45.10"),
		Descripcion: strPtr("bombillos"),
	})
	require.NoError(t, err)
	assert.Equal(t, e.sede.ID.String(), g.SucursalID, "cajero always registers in its own branch")
	assert.Equal(t, "2025-03-10", g.Fecha)
	assert.Equal(t, tipo.Nombre, g.TipoGasto)
	assert.Equal(t, "Energia SA", g.Proveedor)
	assert.Nil(t, g.CierreID)
	assertDec(t, "45.10", g.Valor)
}

func TestRegistrarGasto_Rechazos(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.gastoService()
	ctx := context.Background()
	tipo, prov := e.tipoYProveedor(t, e.sede.ID)
	_, provVecino := e.tipoYProveedor(t, e.vecina.ID)

	base := func() dto.RegistrarGastoRequest {
		return dto.RegistrarGastoRequest{
			TipoGastoID: tipo.ID.String(),
			ProveedorID: prov.ID.String(),
			Valor:       decimal.NewFromInt(10),
		}
	}

	cero := base()
	cero.Valor = decimal.Zero
	_, err := svc.Registrar(ctx, cajero(e.sede), cero)
	requireKind(t, KindValidation, err)

	// Would round to 0.00 in DECIMAL(18,2).
	fraccion := base()
	fraccion.Valor = decimal.RequireFromString("0.004")
	_, err = svc.Registrar(ctx, cajero(e.sede), fraccion)
	requireKind(t, KindValidation, err)

	ajeno := base()
	ajeno.ProveedorID = provVecino.ID.String()
	_, err = svc.Registrar(ctx, cajero(e.sede), ajeno)
	requireKind(t, KindValidation, err)

	sinTipo := base()
	sinTipo.TipoGastoID = uuid.NewString()
	_, err = svc.Registrar(ctx, cajero(e.sede), sinTipo)
	requireKind(t, KindNotFound, err)

	_, err = svc.Registrar(ctx, casinoAdmin(e.casino.ID), base())
	requireKind(t, KindValidation, err)
}

func TestGasto_CerradoSoloMaster(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.gastoService()
	ctx := context.Background()
	g := e.registrarGasto(t, e.sede, "2025-03-08", "70")
	id := uuid.MustParse(g.ID)

	_, err := e.cierreService().CerrarSucursal(ctx, cajero(e.sede), dto.CerrarSucursalRequest{})
	require.NoError(t, err)

	cambio := dto.ActualizarGastoRequest{
		TipoGastoID: g.TipoGastoID,
		ProveedorID: g.ProveedorID,
		Fecha:       "2025-03-08",
		Valor:       decimal.NewFromInt(75),
	}
	_, err = svc.Actualizar(ctx, sucursalAdmin(e.sede), id, cambio)
	requireKind(t, KindForbidden, err)

	upd, err := svc.Actualizar(ctx, master(), id, cambio)
	require.NoError(t, err)
	assertDec(t, "75", upd.Valor)
	require.NotNil(t, upd.CierreID, "editing never detaches the expense from its closing")

	requireKind(t, KindForbidden, svc.Eliminar(ctx, master(), id))
}

func TestGasto_ActualizarYEliminarAbierto(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.gastoService()
	ctx := context.Background()
	g := e.registrarGasto(t, e.sede, "2025-03-08", "70")
	id := uuid.MustParse(g.ID)

	upd, err := svc.Actualizar(ctx, cajero(e.sede), id, dto.ActualizarGastoRequest{
		TipoGastoID: g.TipoGastoID,
		ProveedorID: g.ProveedorID,
		Fecha:       "2025-03-09",
		Valor:       decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", upd.Fecha)

	requireKind(t, KindForbidden, svc.Eliminar(ctx, cajero(e.vecina), id))
	require.NoError(t, svc.Eliminar(ctx, cajero(e.sede), id))
	requireKind(t, KindNotFound, svc.Eliminar(ctx, cajero(e.sede), id))
}

func TestListarGastos_PorEstado(t *testing.T) {
	e := nuevoEntorno(t)
	svc := e.gastoService()
	ctx := context.Background()
	e.registrarGasto(t, e.sede, "2025-03-01", "10")
	_, err := e.cierreService().CerrarSucursal(ctx, cajero(e.sede), dto.CerrarSucursalRequest{})
	require.NoError(t, err)
	e.registrarGasto(t, e.sede, "2025-03-09", "20")

	abiertos, err := svc.Listar(ctx, cajero(e.sede), dto.GastoFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, abiertos.Total)

	cerrados, err := svc.Listar(ctx, cajero(e.sede), dto.GastoFilter{Estado: "cerrado"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, cerrados.Total)

	todos, err := svc.Listar(ctx, master(), dto.GastoFilter{SucursalID: e.sede.ID.String(), Estado: "todos"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, todos.Total)
}
