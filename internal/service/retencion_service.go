package service

import (
	"context"
	"strings"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TasaRetencion is the share of a prize withheld at payout.
var TasaRetencion = decimal.RequireFromString("0.20")

// calcularRetencion rounds half away from zero to cents, the column scale.
func calcularRetencion(premio decimal.Decimal) decimal.Decimal {
	return premio.Mul(TasaRetencion).Round(2)
}

type RetencionService interface {
	Registrar(ctx context.Context, a actor.Actor, req dto.RegistrarRetencionRequest) (*dto.RetencionResponse, error)
	Actualizar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.ActualizarRetencionRequest) (*dto.RetencionResponse, error)
	Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error
	Listar(ctx context.Context, a actor.Actor, filter dto.RetencionFilter) (*dto.RetencionListResponse, error)
}

type retencionService struct {
	repo       repository.RetencionRepository
	sucursales repository.SucursalRepository
	reloj      Reloj
}

func NewRetencionService(repo repository.RetencionRepository, sucursales repository.SucursalRepository, reloj Reloj) RetencionService {
	if reloj == nil {
		reloj = RelojSistema
	}
	return &retencionService{repo: repo, sucursales: sucursales, reloj: reloj}
}

func validarPremio(premio decimal.Decimal) error {
	if premio.IsNegative() {
		return errValidacion("el valor del premio no puede ser negativo")
	}
	return validarCentavos("valor_premio", premio)
}

func (s *retencionService) Registrar(ctx context.Context, a actor.Actor, req dto.RegistrarRetencionRequest) (*dto.RetencionResponse, error) {
	if err := validarPremio(req.ValorPremio); err != nil {
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

	r := &model.Retencion{
		SucursalID:     suc.ID,
		UsuarioID:      a.UsuarioID,
		Fecha:          fecha,
		Cedula:         strings.TrimSpace(req.Cedula),
		Nombre:         strings.TrimSpace(req.Nombre),
		ValorPremio:    req.ValorPremio,
		ValorRetencion: calcularRetencion(req.ValorPremio),
		Observacion:    req.Observacion,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	log.Info().Str("retencion_id", r.ID.String()).Str("sucursal_id", suc.ID.String()).Msg("retencion registrada")
	resp := retencionToResponse(r)
	return &resp, nil
}

// Actualizar recomputes the withheld amount from the new prize.
func (s *retencionService) Actualizar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.ActualizarRetencionRequest) (*dto.RetencionResponse, error) {
	if err := validarPremio(req.ValorPremio); err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha, s.reloj)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "retencion")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, r.SucursalID); err != nil {
		return nil, err
	}

	r.Fecha = fecha
	r.Cedula = strings.TrimSpace(req.Cedula)
	r.Nombre = strings.TrimSpace(req.Nombre)
	r.ValorPremio = req.ValorPremio
	r.ValorRetencion = calcularRetencion(req.ValorPremio)
	r.Observacion = req.Observacion
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	resp := retencionToResponse(r)
	return &resp, nil
}

func (s *retencionService) Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducir(err, "retencion")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, r.SucursalID); err != nil {
		return err
	}
	return traducir(s.repo.Delete(ctx, id), "retencion")
}

// Listar returns one day of withholdings (today by default) within the
// actor's scope, with totals over every matching row.
func (s *retencionService) Listar(ctx context.Context, a actor.Actor, filter dto.RetencionFilter) (*dto.RetencionListResponse, error) {
	fecha, err := parseFecha(filter.Fecha, s.reloj)
	if err != nil {
		return nil, err
	}
	f := repository.RetencionFiltro{Fecha: fecha, Page: filter.Page, Limit: filter.Limit}
	f.SucursalID, f.CasinoID, err = alcanceListado(ctx, s.sucursales, a, filter.SucursalID, filter.CasinoID)
	if err != nil {
		return nil, err
	}

	rets, total, tot, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.RetencionResponse, len(rets))
	for i := range rets {
		data[i] = retencionToResponse(&rets[i])
	}
	page, limit := normalizarPagina(filter.Page, filter.Limit)
	return &dto.RetencionListResponse{
		Data:             data,
		Fecha:            fecha.Format(layoutFecha),
		TotalPremios:     tot.Premios,
		TotalRetenciones: tot.Retenciones,
		Total:            total,
		Page:             page,
		Limit:            limit,
	}, nil
}
