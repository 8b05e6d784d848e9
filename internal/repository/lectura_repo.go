package repository

import (
	"context"
	"time"

	"gamblerpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estados accepted by LecturaFiltro.Estado.
const (
	EstadoPendiente  = "pendiente"
	EstadoConfirmada = "confirmada"
	EstadoCerrada    = "cerrada"
	EstadoAbierta    = "abierta" // pending or confirmed, not yet closed
)

type LecturaFiltro struct {
	SucursalID uuid.UUID
	MaquinaID  *uuid.UUID
	Desde      *time.Time
	Hasta      *time.Time
	Estado     string
	Page       int
	Limit      int
}

type LecturaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.LecturaMaquina, error)
	List(ctx context.Context, f LecturaFiltro) ([]model.LecturaMaquina, int64, error)
	CountByMaquina(ctx context.Context, maquinaID uuid.UUID) (int64, error)

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, l *model.LecturaMaquina) error
	LockTx(tx *gorm.DB, id uuid.UUID) (*model.LecturaMaquina, error)
	ExistePendienteTx(tx *gorm.DB, maquinaID, sucursalID uuid.UUID) (bool, error)
	// ExisteConfirmadaEnFechaTx ignores the row excluir (uuid.Nil excludes nothing).
	ExisteConfirmadaEnFechaTx(tx *gorm.DB, maquinaID, sucursalID uuid.UUID, fecha time.Time, excluir uuid.UUID) (bool, error)
	ExistePosteriorTx(tx *gorm.DB, maquinaID uuid.UUID, fecha time.Time) (bool, error)
	// ListPosterioresTx returns every later reading of the machine, in any branch,
	// locked and ordered by fecha then created_at.
	ListPosterioresTx(tx *gorm.DB, maquinaID uuid.UUID, fecha time.Time) ([]model.LecturaMaquina, error)
	ListPendientesTx(tx *gorm.DB, sucursalID uuid.UUID) ([]model.LecturaMaquina, error)
	ListAbiertasTx(tx *gorm.DB, sucursalID uuid.UUID) ([]model.LecturaMaquina, error)
	// GuardarCalculoTx writes raw counters and derived columns of l.
	GuardarCalculoTx(tx *gorm.DB, l *model.LecturaMaquina) error
	ConfirmarTx(tx *gorm.DB, ids []uuid.UUID, cuando time.Time) (int64, error)
	// AsignarCierreTx only touches rows whose cierre_id is still NULL and returns
	// how many it updated; callers compare that with len(ids).
	AsignarCierreTx(tx *gorm.DB, ids []uuid.UUID, cierreID uuid.UUID) (int64, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type lecturaRepo struct{ db *gorm.DB }

func NewLecturaRepository(db *gorm.DB) LecturaRepository { return &lecturaRepo{db: db} }

func (r *lecturaRepo) DB() *gorm.DB { return r.db }

func (r *lecturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LecturaMaquina, error) {
	var l model.LecturaMaquina
	if err := r.db.WithContext(ctx).Preload("Maquina").Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lecturaRepo) List(ctx context.Context, f LecturaFiltro) ([]model.LecturaMaquina, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LecturaMaquina{}).Where("sucursal_id = ?", f.SucursalID)
	if f.MaquinaID != nil {
		q = q.Where("maquina_id = ?", *f.MaquinaID)
	}
	if f.Desde != nil {
		q = q.Where("fecha >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha <= ?", *f.Hasta)
	}
	switch f.Estado {
	case EstadoPendiente:
		q = q.Where("confirmado = ? AND cierre_id IS NULL", false)
	case EstadoConfirmada:
		q = q.Where("confirmado = ? AND cierre_id IS NULL", true)
	case EstadoCerrada:
		q = q.Where("cierre_id IS NOT NULL")
	case EstadoAbierta:
		q = q.Where("cierre_id IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginar(f.Page, f.Limit)
	var lecturas []model.LecturaMaquina
	err := q.Preload("Maquina").
		Order("fecha DESC").Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&lecturas).Error
	return lecturas, total, err
}

func (r *lecturaRepo) CountByMaquina(ctx context.Context, maquinaID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LecturaMaquina{}).Where("maquina_id = ?", maquinaID).Count(&n).Error
	return n, err
}

func (r *lecturaRepo) CreateTx(tx *gorm.DB, l *model.LecturaMaquina) error {
	return tx.Omit("Maquina").Create(l).Error
}

func (r *lecturaRepo) LockTx(tx *gorm.DB, id uuid.UUID) (*model.LecturaMaquina, error) {
	var l model.LecturaMaquina
	if err := tx.Clauses(paraActualizar).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lecturaRepo) exists(q *gorm.DB) (bool, error) {
	var n int64
	if err := q.Model(&model.LecturaMaquina{}).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *lecturaRepo) ExistePendienteTx(tx *gorm.DB, maquinaID, sucursalID uuid.UUID) (bool, error) {
	return r.exists(tx.Where("maquina_id = ? AND sucursal_id = ? AND confirmado = ? AND cierre_id IS NULL",
		maquinaID, sucursalID, false))
}

func (r *lecturaRepo) ExisteConfirmadaEnFechaTx(tx *gorm.DB, maquinaID, sucursalID uuid.UUID, fecha time.Time, excluir uuid.UUID) (bool, error) {
	q := tx.Where("maquina_id = ? AND sucursal_id = ? AND fecha = ? AND confirmado = ?",
		maquinaID, sucursalID, fecha, true)
	if excluir != uuid.Nil {
		q = q.Where("id <> ?", excluir)
	}
	return r.exists(q)
}

func (r *lecturaRepo) ExistePosteriorTx(tx *gorm.DB, maquinaID uuid.UUID, fecha time.Time) (bool, error) {
	return r.exists(tx.Where("maquina_id = ? AND fecha > ?", maquinaID, fecha))
}

func (r *lecturaRepo) ListPosterioresTx(tx *gorm.DB, maquinaID uuid.UUID, fecha time.Time) ([]model.LecturaMaquina, error) {
	var lecturas []model.LecturaMaquina
	err := tx.Clauses(paraActualizar).
		Where("maquina_id = ? AND fecha > ?", maquinaID, fecha).
		Order("fecha ASC").Order("created_at ASC").
		Find(&lecturas).Error
	return lecturas, err
}

func (r *lecturaRepo) ListPendientesTx(tx *gorm.DB, sucursalID uuid.UUID) ([]model.LecturaMaquina, error) {
	var lecturas []model.LecturaMaquina
	err := tx.Clauses(paraActualizar).
		Where("sucursal_id = ? AND confirmado = ? AND cierre_id IS NULL", sucursalID, false).
		Order("fecha ASC").Order("created_at ASC").
		Find(&lecturas).Error
	return lecturas, err
}

func (r *lecturaRepo) ListAbiertasTx(tx *gorm.DB, sucursalID uuid.UUID) ([]model.LecturaMaquina, error) {
	var lecturas []model.LecturaMaquina
	err := tx.Clauses(paraActualizar).
		Where("sucursal_id = ? AND cierre_id IS NULL", sucursalID).
		Order("fecha ASC").Order("created_at ASC").
		Find(&lecturas).Error
	return lecturas, err
}

func (r *lecturaRepo) GuardarCalculoTx(tx *gorm.DB, l *model.LecturaMaquina) error {
	return tx.Model(&model.LecturaMaquina{}).Where("id = ?", l.ID).Updates(map[string]any{
		"entrada":        l.Entrada,
		"salida":         l.Salida,
		"jackpots":       l.Jackpots,
		"neto_inicial":   l.NetoInicial,
		"neto_final":     l.NetoFinal,
		"total_creditos": l.TotalCreditos,
		"total_recaudo":  l.TotalRecaudo,
	}).Error
}

func (r *lecturaRepo) ConfirmarTx(tx *gorm.DB, ids []uuid.UUID, cuando time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Model(&model.LecturaMaquina{}).
		Where("id IN ? AND confirmado = ? AND cierre_id IS NULL", ids, false).
		Updates(map[string]any{"confirmado": true, "fecha_confirmacion": cuando})
	return res.RowsAffected, res.Error
}

func (r *lecturaRepo) AsignarCierreTx(tx *gorm.DB, ids []uuid.UUID, cierreID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Model(&model.LecturaMaquina{}).
		Where("id IN ? AND cierre_id IS NULL", ids).
		Update("cierre_id", cierreID)
	return res.RowsAffected, res.Error
}

func (r *lecturaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Where("id = ?", id).Delete(&model.LecturaMaquina{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
