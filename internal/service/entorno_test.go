package service

import (
	"context"
	"testing"
	"time"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"
	"gamblerpro/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── SQLite-backed environment ────────────────────────────────────────────────
// Two branches of one casino plus a third branch in another casino. Each
// branch gets one active machine with denomination 0.50.

var ahoraFijo = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func relojFijo() time.Time { return ahoraFijo }

type entorno struct {
	db *gorm.DB

	sucursales  repository.SucursalRepository
	maquinas    repository.MaquinaRepository
	lecturas    repository.LecturaRepository
	gastos      repository.GastoRepository
	proveedores repository.ProveedorRepository
	cierres     repository.CierreRepository

	casino    *model.Casino
	sede      *model.Sucursal
	vecina    *model.Sucursal
	ajena     *model.Sucursal
	maquina   *model.Maquina
	maqVecina *model.Maquina
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	e := &entorno{
		db:          db,
		sucursales:  repository.NewSucursalRepository(db),
		maquinas:    repository.NewMaquinaRepository(db),
		lecturas:    repository.NewLecturaRepository(db),
		gastos:      repository.NewGastoRepository(db),
		proveedores: repository.NewProveedorRepository(db),
		cierres:     repository.NewCierreRepository(db),
	}

	e.casino = &model.Casino{Nombre: "Casino Norte"}
	require.NoError(t, e.sucursales.CreateCasino(ctx, e.casino))
	otro := &model.Casino{Nombre: "Casino Sur"}
	require.NoError(t, e.sucursales.CreateCasino(ctx, otro))

	e.sede = e.sucursal(t, e.casino.ID, "Sede Centro")
	e.vecina = e.sucursal(t, e.casino.ID, "Sede Plaza")
	e.ajena = e.sucursal(t, otro.ID, "Sede Puerto")

	e.maquina = e.nuevaMaquina(t, e.sede.ID, "1001")
	e.maqVecina = e.nuevaMaquina(t, e.vecina.ID, "2001")
	return e
}

func (e *entorno) sucursal(t *testing.T, casinoID uuid.UUID, nombre string) *model.Sucursal {
	t.Helper()
	s := &model.Sucursal{CasinoID: casinoID, Nombre: nombre, Activo: true}
	require.NoError(t, e.sucursales.Create(context.Background(), s))
	return s
}

func (e *entorno) nuevaMaquina(t *testing.T, sucursalID uuid.UUID, ndi string) *model.Maquina {
	t.Helper()
	m := &model.Maquina{
		NDI:          ndi,
		SucursalID:   sucursalID,
		Nombre:       "Slot " + ndi,
		Denominacion: decimal.RequireFromString("0.50"),
		Activa:       true,
	}
	require.NoError(t, e.maquinas.Create(context.Background(), m))
	return m
}

func (e *entorno) lecturaService() LecturaService {
	return NewLecturaService(e.lecturas, e.maquinas, e.sucursales, relojFijo)
}

func (e *entorno) ultimoNeto(t *testing.T, maquinaID uuid.UUID) decimal.Decimal {
	t.Helper()
	m, err := e.maquinas.FindByID(context.Background(), maquinaID)
	require.NoError(t, err)
	return m.UltimoNetoFinal
}

func (e *entorno) leer(t *testing.T, id string) *model.LecturaMaquina {
	t.Helper()
	l, err := e.lecturas.FindByID(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	return l
}

// tipoYProveedor registers the references an expense needs in one branch.
func (e *entorno) tipoYProveedor(t *testing.T, sucursalID uuid.UUID) (tipo *model.TipoGasto, prov *model.Proveedor) {
	t.Helper()
	ctx := context.Background()
	tipo = &model.TipoGasto{Nombre: "Servicios " + uuid.NewString()[:8]}
	require.NoError(t, e.gastos.CreateTipo(ctx, tipo))
	prov = &model.Proveedor{SucursalID: sucursalID, Nombre: "Energia SA", Activo: true}
	require.NoError(t, e.proveedores.Create(ctx, prov))
	return tipo, prov
}

// ── Actors ───────────────────────────────────────────────────────────────────

func master() actor.Actor {
	return actor.Actor{UsuarioID: uuid.New(), Rol: actor.RolMasterAdmin}
}

func casinoAdmin(casinoID uuid.UUID) actor.Actor {
	return actor.Actor{UsuarioID: uuid.New(), Rol: actor.RolCasinoAdmin, CasinoID: &casinoID}
}

func sucursalAdmin(s *model.Sucursal) actor.Actor {
	return actor.Actor{UsuarioID: uuid.New(), Rol: actor.RolSucursalAdmin, CasinoID: &s.CasinoID, SucursalID: &s.ID}
}

func cajero(s *model.Sucursal) actor.Actor {
	return actor.Actor{UsuarioID: uuid.New(), Rol: actor.RolCajero, CasinoID: &s.CasinoID, SucursalID: &s.ID}
}

// ── Request helpers ──────────────────────────────────────────────────────────

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func crearReq(m *model.Maquina, fecha, entrada, salida, jackpots string) dto.CrearLecturaRequest {
	return dto.CrearLecturaRequest{
		MaquinaID: m.ID.String(),
		Fecha:     fecha,
		Entrada:   decPtr(entrada),
		Salida:    decPtr(salida),
		Jackpots:  decPtr(jackpots),
	}
}

func requireKind(t *testing.T, want ErrorKind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equalf(t, want, KindOf(err), "got error %q", err)
}
