package service

import (
	"context"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type GastoService interface {
	Registrar(ctx context.Context, a actor.Actor, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error)
	Actualizar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.ActualizarGastoRequest) (*dto.GastoResponse, error)
	Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error
	Listar(ctx context.Context, a actor.Actor, filter dto.GastoFilter) (*dto.GastoListResponse, error)
}

type gastoService struct {
	repo        repository.GastoRepository
	proveedores repository.ProveedorRepository
	sucursales  repository.SucursalRepository
	reloj       Reloj
}

func NewGastoService(
	repo repository.GastoRepository,
	proveedores repository.ProveedorRepository,
	sucursales repository.SucursalRepository,
	reloj Reloj,
) GastoService {
	if reloj == nil {
		reloj = RelojSistema
	}
	return &gastoService{repo: repo, proveedores: proveedores, sucursales: sucursales, reloj: reloj}
}

// referencias checks that the expense type exists and the payee belongs to the branch.
func (s *gastoService) referencias(ctx context.Context, sucursalID uuid.UUID, tipoID, proveedorID string) (uuid.UUID, uuid.UUID, error) {
	tid, err := parseID(tipoID, "tipo_gasto_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	pid, err := parseID(proveedorID, "proveedor_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if _, err := s.repo.FindTipoByID(ctx, tid); err != nil {
		return uuid.Nil, uuid.Nil, traducir(err, "tipo de gasto")
	}
	p, err := s.proveedores.FindByID(ctx, pid)
	if err != nil {
		return uuid.Nil, uuid.Nil, traducir(err, "proveedor")
	}
	if p.SucursalID != sucursalID {
		return uuid.Nil, uuid.Nil, errValidacion("el proveedor no pertenece a la sucursal")
	}
	return tid, pid, nil
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *gastoService) Registrar(ctx context.Context, a actor.Actor, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, errValidacion("el valor del gasto debe ser mayor a cero")
	}
	if err := validarCentavos("valor", req.Valor); err != nil {
		return nil, err
	}
	suc, err := resolverSucursal(ctx, s.sucursales, a, req.SucursalID)
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha, s.reloj)
	if err != nil {
		return nil, err
	}
	tid, pid, err := s.referencias(ctx, suc.ID, req.TipoGastoID, req.ProveedorID)
	if err != nil {
		return nil, err
	}

	g := &model.Gasto{
		SucursalID:  suc.ID,
		TipoGastoID: tid,
		ProveedorID: pid,
		UsuarioID:   a.UsuarioID,
		Fecha:       fecha,
		Valor:       req.Valor,
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	log.Info().Str("gasto_id", g.ID.String()).Str("sucursal_id", suc.ID.String()).Msg("gasto registrado")

	creado, err := s.repo.FindByID(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	resp := gastoToResponse(creado)
	return &resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// A closed expense is part of a settled total; only master_admin may touch it,
// and the closing's stored totals are not rewritten.

func (s *gastoService) Actualizar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.ActualizarGastoRequest) (*dto.GastoResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, errValidacion("el valor del gasto debe ser mayor a cero")
	}
	if err := validarCentavos("valor", req.Valor); err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha, s.reloj)
	if err != nil {
		return nil, err
	}
	previo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "gasto")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, previo.SucursalID); err != nil {
		return nil, err
	}
	tid, pid, err := s.referencias(ctx, previo.SucursalID, req.TipoGastoID, req.ProveedorID)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		g, err := s.repo.LockTx(tx, id)
		if err != nil {
			return traducir(err, "gasto")
		}
		if g.CierreID != nil && !a.Puede(actor.ModificarCerrada) {
			return errProhibido("el gasto ya pertenece a un cierre")
		}
		g.TipoGastoID, g.ProveedorID = tid, pid
		g.Fecha = fecha
		g.Valor = req.Valor
		g.Descripcion = req.Descripcion
		return s.repo.UpdateTx(tx, g)
	})
	if err != nil {
		return nil, err
	}

	actualizado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := gastoToResponse(actualizado)
	return &resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *gastoService) Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error {
	previo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducir(err, "gasto")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, previo.SucursalID); err != nil {
		return err
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		g, err := s.repo.LockTx(tx, id)
		if err != nil {
			return traducir(err, "gasto")
		}
		if g.CierreID != nil {
			return errProhibido("no se puede eliminar un gasto que pertenece a un cierre")
		}
		return traducir(s.repo.DeleteTx(tx, id), "gasto")
	})
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *gastoService) Listar(ctx context.Context, a actor.Actor, filter dto.GastoFilter) (*dto.GastoListResponse, error) {
	var pedida *string
	if filter.SucursalID != "" {
		pedida = &filter.SucursalID
	}
	suc, err := resolverSucursal(ctx, s.sucursales, a, pedida)
	if err != nil {
		return nil, err
	}
	f := repository.GastoFiltro{SucursalID: suc.ID, Estado: filter.Estado, Page: filter.Page, Limit: filter.Limit}
	if f.Desde, err = parseFechaOpcional(filter.Desde); err != nil {
		return nil, err
	}
	if f.Hasta, err = parseFechaOpcional(filter.Hasta); err != nil {
		return nil, err
	}

	gastos, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.GastoResponse, len(gastos))
	for i := range gastos {
		data[i] = gastoToResponse(&gastos[i])
	}
	page, limit := normalizarPagina(filter.Page, filter.Limit)
	return &dto.GastoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}
