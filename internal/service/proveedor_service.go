package service

import (
	"context"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"
)

// ProveedorService manages the payees and expense types that expenses point at.
type ProveedorService interface {
	Crear(ctx context.Context, a actor.Actor, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, a actor.Actor, sucursalID string) ([]dto.ProveedorResponse, error)
	CrearTipoGasto(ctx context.Context, a actor.Actor, req dto.CrearTipoGastoRequest) (*dto.TipoGastoResponse, error)
	ListarTiposGasto(ctx context.Context) ([]dto.TipoGastoResponse, error)
}

type proveedorService struct {
	repo       repository.ProveedorRepository
	gastos     repository.GastoRepository
	sucursales repository.SucursalRepository
}

func NewProveedorService(repo repository.ProveedorRepository, gastos repository.GastoRepository, sucursales repository.SucursalRepository) ProveedorService {
	return &proveedorService{repo: repo, gastos: gastos, sucursales: sucursales}
}

func (s *proveedorService) Crear(ctx context.Context, a actor.Actor, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	if a.EsCajero() {
		return nil, errProhibido("los cajeros no pueden registrar proveedores")
	}
	suc, err := resolverSucursal(ctx, s.sucursales, a, req.SucursalID)
	if err != nil {
		return nil, err
	}
	p := &model.Proveedor{
		SucursalID:     suc.ID,
		Nombre:         req.Nombre,
		Identificacion: req.Identificacion,
		Telefono:       req.Telefono,
		Activo:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, traducir(err, "proveedor")
	}
	resp := proveedorToResponse(p)
	return &resp, nil
}

func (s *proveedorService) Listar(ctx context.Context, a actor.Actor, sucursalID string) ([]dto.ProveedorResponse, error) {
	var pedida *string
	if sucursalID != "" {
		pedida = &sucursalID
	}
	suc, err := resolverSucursal(ctx, s.sucursales, a, pedida)
	if err != nil {
		return nil, err
	}
	proveedores, err := s.repo.ListBySucursal(ctx, suc.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, len(proveedores))
	for i := range proveedores {
		out[i] = proveedorToResponse(&proveedores[i])
	}
	return out, nil
}

// Expense types are shared by every casino, so only master_admin defines them.
func (s *proveedorService) CrearTipoGasto(ctx context.Context, a actor.Actor, req dto.CrearTipoGastoRequest) (*dto.TipoGastoResponse, error) {
	if !a.EsMaster() {
		return nil, errProhibido("solo un administrador maestro puede crear tipos de gasto")
	}
	t := &model.TipoGasto{Nombre: req.Nombre}
	if err := s.gastos.CreateTipo(ctx, t); err != nil {
		return nil, traducir(err, "tipo de gasto")
	}
	return &dto.TipoGastoResponse{ID: t.ID.String(), Nombre: t.Nombre}, nil
}

func (s *proveedorService) ListarTiposGasto(ctx context.Context) ([]dto.TipoGastoResponse, error) {
	tipos, err := s.gastos.ListTipos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoGastoResponse, len(tipos))
	for i, t := range tipos {
		out[i] = dto.TipoGastoResponse{ID: t.ID.String(), Nombre: t.Nombre}
	}
	return out, nil
}

func proveedorToResponse(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:             p.ID.String(),
		SucursalID:     p.SucursalID.String(),
		Nombre:         p.Nombre,
		Identificacion: p.Identificacion,
		Telefono:       p.Telefono,
		Activo:         p.Activo,
	}
}
