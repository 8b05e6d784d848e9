package service

import (
	"context"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaquinaService is the machine registry. ultimo_neto_final is not editable
// here; only reading mutations move it.
type MaquinaService interface {
	Crear(ctx context.Context, a actor.Actor, req dto.CrearMaquinaRequest) (*dto.MaquinaResponse, error)
	Actualizar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.ActualizarMaquinaRequest) (*dto.MaquinaResponse, error)
	Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error
	Transferir(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.TransferirMaquinaRequest) (*dto.MaquinaResponse, error)
	Obtener(ctx context.Context, a actor.Actor, id uuid.UUID) (*dto.MaquinaResponse, error)
	Listar(ctx context.Context, a actor.Actor, sucursalID string, soloActivas bool) ([]dto.MaquinaResponse, error)

	ObtenerDenominacion(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	ObtenerUltimoNetoFinal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

type maquinaService struct {
	repo       repository.MaquinaRepository
	lecturas   repository.LecturaRepository
	sucursales repository.SucursalRepository
}

func NewMaquinaService(repo repository.MaquinaRepository, lecturas repository.LecturaRepository, sucursales repository.SucursalRepository) MaquinaService {
	return &maquinaService{repo: repo, lecturas: lecturas, sucursales: sucursales}
}

// visible loads the machine and checks the actor reaches its branch.
func (s *maquinaService) visible(ctx context.Context, a actor.Actor, id uuid.UUID) (*model.Maquina, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "maquina")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, m.SucursalID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *maquinaService) Crear(ctx context.Context, a actor.Actor, req dto.CrearMaquinaRequest) (*dto.MaquinaResponse, error) {
	if !a.Puede(actor.GestionarMaquinas) {
		return nil, errProhibido("no tiene permiso para gestionar maquinas")
	}
	if !req.Denominacion.IsPositive() {
		return nil, errValidacion("la denominacion debe ser mayor a cero")
	}
	if err := validarCentavos("denominacion", req.Denominacion); err != nil {
		return nil, err
	}
	suc, err := resolverSucursal(ctx, s.sucursales, a, req.SucursalID)
	if err != nil {
		return nil, err
	}

	m := &model.Maquina{
		NDI:             req.NDI,
		SucursalID:      suc.ID,
		Nombre:          req.Nombre,
		CodigoInterno:   req.CodigoInterno,
		Denominacion:    req.Denominacion,
		UltimoNetoFinal: decimal.Zero,
		Activa:          true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, traducir(err, "NDI de maquina")
	}
	log.Info().Str("maquina_id", m.ID.String()).Str("ndi", m.NDI).Msg("maquina registrada")
	resp := maquinaToResponse(m)
	return &resp, nil
}

func (s *maquinaService) Actualizar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.ActualizarMaquinaRequest) (*dto.MaquinaResponse, error) {
	if !a.Puede(actor.GestionarMaquinas) {
		return nil, errProhibido("no tiene permiso para gestionar maquinas")
	}
	if !req.Denominacion.IsPositive() {
		return nil, errValidacion("la denominacion debe ser mayor a cero")
	}
	if err := validarCentavos("denominacion", req.Denominacion); err != nil {
		return nil, err
	}
	m, err := s.visible(ctx, a, id)
	if err != nil {
		return nil, err
	}
	m.NDI = req.NDI
	m.Nombre = req.Nombre
	m.CodigoInterno = req.CodigoInterno
	m.Denominacion = req.Denominacion
	m.Activa = req.Activa
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, traducir(err, "NDI de maquina")
	}
	resp := maquinaToResponse(m)
	return &resp, nil
}

// Eliminar refuses machines with history; deactivate them instead.
func (s *maquinaService) Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error {
	if !a.Puede(actor.GestionarMaquinas) {
		return errProhibido("no tiene permiso para gestionar maquinas")
	}
	if _, err := s.visible(ctx, a, id); err != nil {
		return err
	}
	n, err := s.lecturas.CountByMaquina(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errConflicto("la maquina tiene %d lecturas registradas; desactivela en lugar de eliminarla", n)
	}
	return traducir(s.repo.Delete(ctx, id), "maquina")
}

// Transferir moves the machine to another branch. Existing readings stay with
// the branch where they were taken; the chain continues from ultimo_neto_final.
func (s *maquinaService) Transferir(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.TransferirMaquinaRequest) (*dto.MaquinaResponse, error) {
	if !a.Puede(actor.TransferirMaquinas) {
		return nil, errProhibido("no tiene permiso para transferir maquinas")
	}
	destinoID, err := parseID(req.SucursalDestinoID, "sucursal_destino_id")
	if err != nil {
		return nil, err
	}
	m, err := s.visible(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if m.SucursalID == destinoID {
		return nil, errValidacion("la maquina ya pertenece a esa sucursal")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, destinoID); err != nil {
		return nil, err
	}

	origen := m.SucursalID
	m.SucursalID = destinoID
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	log.Info().
		Str("maquina_id", m.ID.String()).
		Str("origen", origen.String()).
		Str("destino", destinoID.String()).
		Msg("maquina transferida")
	resp := maquinaToResponse(m)
	return &resp, nil
}

func (s *maquinaService) Obtener(ctx context.Context, a actor.Actor, id uuid.UUID) (*dto.MaquinaResponse, error) {
	m, err := s.visible(ctx, a, id)
	if err != nil {
		return nil, err
	}
	resp := maquinaToResponse(m)
	return &resp, nil
}

func (s *maquinaService) Listar(ctx context.Context, a actor.Actor, sucursalID string, soloActivas bool) ([]dto.MaquinaResponse, error) {
	var pedida *string
	if sucursalID != "" {
		pedida = &sucursalID
	}
	suc, err := resolverSucursal(ctx, s.sucursales, a, pedida)
	if err != nil {
		return nil, err
	}
	maquinas, err := s.repo.ListBySucursal(ctx, suc.ID, soloActivas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaquinaResponse, len(maquinas))
	for i := range maquinas {
		out[i] = maquinaToResponse(&maquinas[i])
	}
	return out, nil
}

func (s *maquinaService) ObtenerDenominacion(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, traducir(err, "maquina")
	}
	return m.Denominacion, nil
}

func (s *maquinaService) ObtenerUltimoNetoFinal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, traducir(err, "maquina")
	}
	return m.UltimoNetoFinal, nil
}
