package service

import (
	"context"
	"fmt"
	"time"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Locker serialises closings of one branch across processes. The row lock
// taken inside the transaction is what guarantees correctness; the distributed
// lock only turns a concurrent second close into a fast, clean rejection.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Notificador receives a committed closing. Failures never undo the closing.
type Notificador interface {
	NotificarCierre(ctx context.Context, c *model.CierreCaja) error
}

type CierreService interface {
	CerrarSucursal(ctx context.Context, a actor.Actor, req dto.CerrarSucursalRequest) (*dto.CierreResponse, error)
	Obtener(ctx context.Context, a actor.Actor, id uuid.UUID) (*dto.CierreDetalleResponse, error)
	Listar(ctx context.Context, a actor.Actor, sucursalID string, page, limit int) (*dto.CierreListResponse, error)
}

type cierreService struct {
	repo        repository.CierreRepository
	lecturas    repository.LecturaRepository
	gastos      repository.GastoRepository
	sucursales  repository.SucursalRepository
	locker      Locker
	lockTTL     time.Duration
	notificador Notificador
}

type CierreOption func(*cierreService)

func ConLocker(l Locker, ttl time.Duration) CierreOption {
	return func(s *cierreService) {
		s.locker = l
		s.lockTTL = ttl
	}
}

func ConNotificador(n Notificador) CierreOption {
	return func(s *cierreService) { s.notificador = n }
}

func NewCierreService(
	repo repository.CierreRepository,
	lecturas repository.LecturaRepository,
	gastos repository.GastoRepository,
	sucursales repository.SucursalRepository,
	opts ...CierreOption,
) CierreService {
	s := &cierreService{
		repo:       repo,
		lecturas:   lecturas,
		gastos:     gastos,
		sucursales: sucursales,
		lockTTL:    30 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func lockKeyCierre(sucursalID uuid.UUID) string {
	return fmt.Sprintf("lock:cierre:%s", sucursalID)
}

// ── CerrarSucursal ────────────────────────────────────────────────────────────
// Absorbs every reading and expense of the branch whose cierre_id is still NULL,
// pending readings included. Insert and stamping happen in one transaction; the
// guarded UPDATE must hit exactly the rows that were summed or everything rolls back.

func (s *cierreService) CerrarSucursal(ctx context.Context, a actor.Actor, req dto.CerrarSucursalRequest) (*dto.CierreResponse, error) {
	suc, err := resolverSucursal(ctx, s.sucursales, a, req.SucursalID)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, lockKeyCierre(suc.ID), s.lockTTL)
		if err != nil {
			log.Warn().Err(err).Str("sucursal_id", suc.ID.String()).Msg("cierre: lock no disponible")
			return nil, errConflicto("ya hay un cierre en curso para esta sucursal")
		}
		defer release()
	}

	var (
		cierre       *model.CierreCaja
		cantLecturas int
		cantGastos   int
	)
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.sucursales.LockTx(tx, suc.ID); err != nil {
			return traducir(err, "sucursal")
		}
		lecturas, err := s.lecturas.ListAbiertasTx(tx, suc.ID)
		if err != nil {
			return err
		}
		gastos, err := s.gastos.ListAbiertosTx(tx, suc.ID)
		if err != nil {
			return err
		}

		resumen, ok := ResumirCierre(lecturas, gastos)
		if !ok {
			return newError(KindNothingToClose, "no hay lecturas ni gastos pendientes de cierre")
		}

		cierre = &model.CierreCaja{
			SucursalID:     suc.ID,
			UsuarioID:      a.UsuarioID,
			FechaInicio:    resumen.FechaInicio,
			FechaFin:       resumen.FechaFin,
			TotalRecaudado: resumen.TotalRecaudado,
			TotalGastos:    resumen.TotalGastos,
			TotalCierre:    resumen.TotalCierre,
			Observaciones:  req.Observaciones,
		}
		if err := s.repo.CreateTx(tx, cierre); err != nil {
			return err
		}

		if len(lecturas) > 0 {
			ids := make([]uuid.UUID, len(lecturas))
			for i, l := range lecturas {
				ids[i] = l.ID
			}
			n, err := s.lecturas.AsignarCierreTx(tx, ids, cierre.ID)
			if err != nil {
				return err
			}
			if int(n) != len(ids) {
				return errConflicto("las lecturas cambiaron durante el cierre, reintente")
			}
		}
		if len(gastos) > 0 {
			ids := make([]uuid.UUID, len(gastos))
			for i, g := range gastos {
				ids[i] = g.ID
			}
			n, err := s.gastos.AsignarCierreTx(tx, ids, cierre.ID)
			if err != nil {
				return err
			}
			if int(n) != len(ids) {
				return errConflicto("los gastos cambiaron durante el cierre, reintente")
			}
		}
		cantLecturas, cantGastos = len(lecturas), len(gastos)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("cierre_id", cierre.ID.String()).
		Str("sucursal_id", suc.ID.String()).
		Int("lecturas", cantLecturas).
		Int("gastos", cantGastos).
		Str("total_cierre", cierre.TotalCierre.StringFixed(2)).
		Msg("cierre de caja registrado")

	if s.notificador != nil {
		if err := s.notificador.NotificarCierre(ctx, cierre); err != nil {
			log.Warn().Err(err).Str("cierre_id", cierre.ID.String()).Msg("cierre: notificacion no encolada")
		}
	}

	resp := cierreToResponse(cierre, cantLecturas, cantGastos)
	return &resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cierreService) Obtener(ctx context.Context, a actor.Actor, id uuid.UUID) (*dto.CierreDetalleResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "cierre")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, c.SucursalID); err != nil {
		return nil, err
	}

	resp := &dto.CierreDetalleResponse{
		CierreResponse: cierreToResponse(c, len(c.Lecturas), len(c.Gastos)),
		Lecturas:       make([]dto.LecturaResponse, len(c.Lecturas)),
		Gastos:         make([]dto.GastoResponse, len(c.Gastos)),
	}
	for i := range c.Lecturas {
		resp.Lecturas[i] = lecturaToResponse(&c.Lecturas[i])
	}
	for i := range c.Gastos {
		resp.Gastos[i] = gastoToResponse(&c.Gastos[i])
	}
	return resp, nil
}

// Listar scopes by role: master may filter by any branch, casino_admin sees
// its casino, pinned roles see only their own branch.
func (s *cierreService) Listar(ctx context.Context, a actor.Actor, sucursalID string, page, limit int) (*dto.CierreListResponse, error) {
	f := repository.CierreFiltro{Page: page, Limit: limit}
	var err error
	f.SucursalID, f.CasinoID, err = alcanceListado(ctx, s.sucursales, a, sucursalID, "")
	if err != nil {
		return nil, err
	}

	cierres, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CierreResponse, len(cierres))
	for i := range cierres {
		data[i] = cierreToResponse(&cierres[i], len(cierres[i].Lecturas), len(cierres[i].Gastos))
	}
	page, limit = normalizarPagina(page, limit)
	return &dto.CierreListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}
