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
	"gorm.io/gorm"
)

type LecturaService interface {
	Crear(ctx context.Context, a actor.Actor, req dto.CrearLecturaRequest) (*dto.LecturaResponse, error)
	Editar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.EditarLecturaRequest) (*dto.EdicionLecturaResponse, error)
	Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error
	ConfirmarPendientes(ctx context.Context, a actor.Actor, req dto.ConfirmarLecturasRequest) (*dto.ConfirmacionResponse, error)
	Obtener(ctx context.Context, a actor.Actor, id uuid.UUID) (*dto.LecturaResponse, error)
	Listar(ctx context.Context, a actor.Actor, filter dto.LecturaFilter) (*dto.LecturaListResponse, error)
}

type lecturaService struct {
	repo       repository.LecturaRepository
	maquinas   repository.MaquinaRepository
	sucursales repository.SucursalRepository
	reloj      Reloj
}

func NewLecturaService(
	repo repository.LecturaRepository,
	maquinas repository.MaquinaRepository,
	sucursales repository.SucursalRepository,
	reloj Reloj,
) LecturaService {
	if reloj == nil {
		reloj = RelojSistema
	}
	return &lecturaService{repo: repo, maquinas: maquinas, sucursales: sucursales, reloj: reloj}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// The machine row is locked before the pending / same-day checks, so two
// concurrent creates for one machine cannot both pass them.

func (s *lecturaService) Crear(ctx context.Context, a actor.Actor, req dto.CrearLecturaRequest) (*dto.LecturaResponse, error) {
	cont, err := validarContadores(req.Entrada, req.Salida, req.Jackpots)
	if err != nil {
		return nil, err
	}
	maquinaID, err := parseID(req.MaquinaID, "maquina_id")
	if err != nil {
		return nil, err
	}
	fecha, err := parseFecha(req.Fecha, s.reloj)
	if err != nil {
		return nil, err
	}
	if req.NetoInicial != nil {
		if req.NetoInicial.IsNegative() {
			return nil, errValidacion("neto_inicial no puede ser negativo")
		}
		if err := validarCentavos("neto_inicial", *req.NetoInicial); err != nil {
			return nil, err
		}
	}

	previa, err := s.maquinas.FindByID(ctx, maquinaID)
	if err != nil {
		return nil, traducir(err, "maquina")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, previa.SucursalID); err != nil {
		return nil, err
	}

	var lectura *model.LecturaMaquina
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		m, err := s.maquinas.LockTx(tx, maquinaID)
		if err != nil {
			return traducir(err, "maquina")
		}
		if m.SucursalID != previa.SucursalID {
			return errConflicto("la maquina cambio de sucursal, reintente")
		}
		if !m.Activa {
			return errValidacion("la maquina %s esta inactiva", m.NDI)
		}

		pendiente, err := s.repo.ExistePendienteTx(tx, m.ID, m.SucursalID)
		if err != nil {
			return err
		}
		if pendiente {
			return errConflicto("la maquina %s ya tiene una lectura pendiente de confirmar", m.NDI)
		}
		duplicada, err := s.repo.ExisteConfirmadaEnFechaTx(tx, m.ID, m.SucursalID, fecha, uuid.Nil)
		if err != nil {
			return err
		}
		if duplicada {
			return errConflicto("la maquina %s ya tiene una lectura confirmada el %s", m.NDI, fecha.Format(layoutFecha))
		}
		posterior, err := s.repo.ExistePosteriorTx(tx, m.ID, fecha)
		if err != nil {
			return err
		}
		if posterior {
			return errConflicto("la maquina %s tiene lecturas posteriores al %s", m.NDI, fecha.Format(layoutFecha))
		}

		netoInicial := m.UltimoNetoFinal
		if req.NetoInicial != nil && a.Puede(actor.FijarNetoInicial) {
			netoInicial = *req.NetoInicial
		}
		d := CalcularDerivados(netoInicial, cont, m.Denominacion)

		lectura = &model.LecturaMaquina{
			SucursalID:    m.SucursalID,
			MaquinaID:     m.ID,
			UsuarioID:     a.UsuarioID,
			Fecha:         fecha,
			Entrada:       cont.Entrada,
			Salida:        cont.Salida,
			Jackpots:      cont.Jackpots,
			NetoInicial:   d.NetoInicial,
			NetoFinal:     d.NetoFinal,
			TotalCreditos: d.TotalCreditos,
			TotalRecaudo:  d.TotalRecaudo,
		}
		if a.Puede(actor.ConfirmarAlCrear) {
			ahora := s.reloj()
			lectura.Confirmado = true
			lectura.FechaConfirmacion = &ahora
		}
		if err := s.repo.CreateTx(tx, lectura); err != nil {
			return traducir(err, "lectura")
		}
		return s.maquinas.SetUltimoNetoFinalTx(tx, m.ID, d.NetoFinal)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("lectura_id", lectura.ID.String()).
		Str("maquina_id", maquinaID.String()).
		Bool("confirmado", lectura.Confirmado).
		Msg("lectura registrada")

	resp := lecturaToResponse(lectura)
	resp.MaquinaNDI = previa.NDI
	return &resp, nil
}

// ── Editar ────────────────────────────────────────────────────────────────────
// Recomputes the edited row from its existing neto_inicial, then re-derives
// every later reading of the machine in date order. One transaction: either the
// whole suffix and ultimo_neto_final change, or nothing does.

func (s *lecturaService) Editar(ctx context.Context, a actor.Actor, id uuid.UUID, req dto.EditarLecturaRequest) (*dto.EdicionLecturaResponse, error) {
	cont, err := validarContadores(req.Entrada, req.Salida, req.Jackpots)
	if err != nil {
		return nil, err
	}
	previa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "lectura")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, previa.SucursalID); err != nil {
		return nil, err
	}

	var (
		editada      *model.LecturaMaquina
		recalculadas int
	)
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		l, err := s.repo.LockTx(tx, id)
		if err != nil {
			return traducir(err, "lectura")
		}
		if l.Cerrada() && !a.Puede(actor.ModificarCerrada) {
			return errProhibido("la lectura ya pertenece a un cierre")
		}
		if l.Confirmado && !a.Puede(actor.EditarConfirmada) {
			return errProhibido("la lectura ya fue confirmada; solo un administrador maestro puede editarla")
		}

		m, err := s.maquinas.LockTx(tx, l.MaquinaID)
		if err != nil {
			return traducir(err, "maquina")
		}

		d := CalcularDerivados(l.NetoInicial, cont, m.Denominacion)
		l.Entrada, l.Salida, l.Jackpots = cont.Entrada, cont.Salida, cont.Jackpots
		aplicarDerivados(l, d)
		if err := s.repo.GuardarCalculoTx(tx, l); err != nil {
			return err
		}

		posteriores, err := s.repo.ListPosterioresTx(tx, l.MaquinaID, l.Fecha)
		if err != nil {
			return err
		}
		crudas := make([]LecturaCruda, len(posteriores))
		for i := range posteriores {
			p := &posteriores[i]
			if p.Cerrada() && !a.Puede(actor.ModificarCerrada) {
				return errProhibido("la correccion alcanza la lectura del %s, que ya pertenece a un cierre", p.Fecha.Format(layoutFecha))
			}
			crudas[i] = LecturaCruda{
				ID:         p.ID,
				MaquinaID:  p.MaquinaID,
				Contadores: Contadores{Entrada: p.Entrada, Salida: p.Salida, Jackpots: p.Jackpots},
			}
		}

		ultimo := d.NetoFinal
		nuevos := RecomputarSufijo(d.NetoFinal, crudas, func(uuid.UUID) decimal.Decimal { return m.Denominacion })
		for i, r := range nuevos {
			p := &posteriores[i]
			aplicarDerivados(p, r.Derivados)
			if err := s.repo.GuardarCalculoTx(tx, p); err != nil {
				return err
			}
			ultimo = r.NetoFinal
		}

		if err := s.maquinas.SetUltimoNetoFinalTx(tx, m.ID, ultimo); err != nil {
			return err
		}
		editada = l
		recalculadas = len(nuevos)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("lectura_id", id.String()).
		Int("recalculadas", recalculadas).
		Msg("lectura editada")

	resp := lecturaToResponse(editada)
	if previa.Maquina != nil {
		resp.MaquinaNDI = previa.Maquina.NDI
	}
	return &dto.EdicionLecturaResponse{Lectura: resp, Recalculadas: recalculadas}, nil
}

func aplicarDerivados(l *model.LecturaMaquina, d Derivados) {
	l.NetoInicial = d.NetoInicial
	l.NetoFinal = d.NetoFinal
	l.TotalCreditos = d.TotalCreditos
	l.TotalRecaudo = d.TotalRecaudo
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Closed rows can never be deleted. Deleting rolls ultimo_neto_final back to the
// row's neto_inicial, which is only correct for the last reading of the chain,
// so deletion is refused while later readings exist.

func (s *lecturaService) Eliminar(ctx context.Context, a actor.Actor, id uuid.UUID) error {
	previa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducir(err, "lectura")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, previa.SucursalID); err != nil {
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		l, err := s.repo.LockTx(tx, id)
		if err != nil {
			return traducir(err, "lectura")
		}
		if l.Cerrada() {
			return errProhibido("no se puede eliminar una lectura que pertenece a un cierre")
		}
		if l.Confirmado && !a.Puede(actor.EliminarConfirmada) {
			return errProhibido("la lectura ya fue confirmada; solo un administrador maestro puede eliminarla")
		}

		m, err := s.maquinas.LockTx(tx, l.MaquinaID)
		if err != nil {
			return traducir(err, "maquina")
		}
		posterior, err := s.repo.ExistePosteriorTx(tx, l.MaquinaID, l.Fecha)
		if err != nil {
			return err
		}
		if posterior {
			return errConflicto("existen lecturas posteriores de la maquina %s; corrija en lugar de eliminar", m.NDI)
		}

		if err := s.repo.DeleteTx(tx, l.ID); err != nil {
			return traducir(err, "lectura")
		}
		if err := s.maquinas.SetUltimoNetoFinalTx(tx, m.ID, l.NetoInicial); err != nil {
			return err
		}
		log.Info().Str("lectura_id", id.String()).Str("maquina_id", m.ID.String()).Msg("lectura eliminada")
		return nil
	})
}

// ── ConfirmarPendientes ───────────────────────────────────────────────────────
// Takes the branch lock shared with closings, then promotes every pending row.
// ultimo_neto_final is already current, so the registry is not touched.

func (s *lecturaService) ConfirmarPendientes(ctx context.Context, a actor.Actor, req dto.ConfirmarLecturasRequest) (*dto.ConfirmacionResponse, error) {
	suc, err := resolverSucursal(ctx, s.sucursales, a, req.SucursalID)
	if err != nil {
		return nil, err
	}

	ahora := s.reloj()
	var confirmadas int
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.sucursales.LockTx(tx, suc.ID); err != nil {
			return traducir(err, "sucursal")
		}
		pendientes, err := s.repo.ListPendientesTx(tx, suc.ID)
		if err != nil {
			return err
		}
		if len(pendientes) == 0 {
			return errNoEncontrado("no hay lecturas pendientes de confirmar en la sucursal")
		}

		ids := make([]uuid.UUID, len(pendientes))
		for i, l := range pendientes {
			dup, err := s.repo.ExisteConfirmadaEnFechaTx(tx, l.MaquinaID, l.SucursalID, l.Fecha, l.ID)
			if err != nil {
				return err
			}
			if dup {
				return errConflicto("ya existe una lectura confirmada para la maquina el %s", l.Fecha.Format(layoutFecha))
			}
			ids[i] = l.ID
		}

		n, err := s.repo.ConfirmarTx(tx, ids, ahora)
		if err != nil {
			return err
		}
		if int(n) != len(ids) {
			return errConflicto("las lecturas pendientes cambiaron durante la confirmacion, reintente")
		}
		confirmadas = len(ids)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("sucursal_id", suc.ID.String()).Int("confirmadas", confirmadas).Msg("lecturas confirmadas")
	return &dto.ConfirmacionResponse{
		SucursalID:        suc.ID.String(),
		Confirmadas:       confirmadas,
		FechaConfirmacion: ahora,
	}, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *lecturaService) Obtener(ctx context.Context, a actor.Actor, id uuid.UUID) (*dto.LecturaResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "lectura")
	}
	if _, err := sucursalVisible(ctx, s.sucursales, a, l.SucursalID); err != nil {
		return nil, err
	}
	resp := lecturaToResponse(l)
	return &resp, nil
}

func (s *lecturaService) Listar(ctx context.Context, a actor.Actor, filter dto.LecturaFilter) (*dto.LecturaListResponse, error) {
	var pedida *string
	if filter.SucursalID != "" {
		pedida = &filter.SucursalID
	}
	suc, err := resolverSucursal(ctx, s.sucursales, a, pedida)
	if err != nil {
		return nil, err
	}
	f := repository.LecturaFiltro{
		SucursalID: suc.ID,
		Estado:     filter.Estado,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if f.MaquinaID, err = parseIDOpcional(&filter.MaquinaID, "maquina_id"); err != nil {
		return nil, err
	}
	if f.Desde, err = parseFechaOpcional(filter.Desde); err != nil {
		return nil, err
	}
	if f.Hasta, err = parseFechaOpcional(filter.Hasta); err != nil {
		return nil, err
	}

	lecturas, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LecturaResponse, len(lecturas))
	for i := range lecturas {
		data[i] = lecturaToResponse(&lecturas[i])
	}
	page, limit := normalizarPagina(filter.Page, filter.Limit)
	return &dto.LecturaListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func normalizarPagina(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
