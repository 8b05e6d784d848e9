package repository

import (
	"context"
	"time"

	"gamblerpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoFiltro struct {
	SucursalID uuid.UUID
	Desde      *time.Time
	Hasta      *time.Time
	// Estado: "abierto" (default) | "cerrado" | "todos"
	Estado string
	Page   int
	Limit  int
}

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error)
	List(ctx context.Context, f GastoFiltro) ([]model.Gasto, int64, error)

	CreateTipo(ctx context.Context, t *model.TipoGasto) error
	FindTipoByID(ctx context.Context, id uuid.UUID) (*model.TipoGasto, error)
	ListTipos(ctx context.Context) ([]model.TipoGasto, error)

	// Used inside transactions: callers must pass the tx instance
	LockTx(tx *gorm.DB, id uuid.UUID) (*model.Gasto, error)
	UpdateTx(tx *gorm.DB, g *model.Gasto) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	ListAbiertosTx(tx *gorm.DB, sucursalID uuid.UUID) ([]model.Gasto, error)
	AsignarCierreTx(tx *gorm.DB, ids []uuid.UUID, cierreID uuid.UUID) (int64, error)

	DB() *gorm.DB
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) DB() *gorm.DB { return r.db }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Omit("TipoGasto", "Proveedor").Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).Preload("TipoGasto").Preload("Proveedor").Where("id = ?", id).First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gastoRepo) List(ctx context.Context, f GastoFiltro) ([]model.Gasto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Gasto{}).Where("sucursal_id = ?", f.SucursalID)
	if f.Desde != nil {
		q = q.Where("fecha >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha <= ?", *f.Hasta)
	}
	switch f.Estado {
	case "todos":
	case "cerrado":
		q = q.Where("cierre_id IS NOT NULL")
	default:
		q = q.Where("cierre_id IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginar(f.Page, f.Limit)
	var gastos []model.Gasto
	err := q.Preload("TipoGasto").Preload("Proveedor").
		Order("fecha DESC").
		Offset(offset).Limit(limit).
		Find(&gastos).Error
	return gastos, total, err
}

func (r *gastoRepo) CreateTipo(ctx context.Context, t *model.TipoGasto) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *gastoRepo) FindTipoByID(ctx context.Context, id uuid.UUID) (*model.TipoGasto, error) {
	var t model.TipoGasto
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *gastoRepo) ListTipos(ctx context.Context) ([]model.TipoGasto, error) {
	var tipos []model.TipoGasto
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *gastoRepo) LockTx(tx *gorm.DB, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	if err := tx.Clauses(paraActualizar).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gastoRepo) UpdateTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Model(&model.Gasto{}).Where("id = ?", g.ID).Updates(map[string]any{
		"tipo_gasto_id": g.TipoGastoID,
		"proveedor_id":  g.ProveedorID,
		"fecha":         g.Fecha,
		"valor":         g.Valor,
		"descripcion":   g.Descripcion,
	}).Error
}

func (r *gastoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Where("id = ?", id).Delete(&model.Gasto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gastoRepo) ListAbiertosTx(tx *gorm.DB, sucursalID uuid.UUID) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := tx.Clauses(paraActualizar).
		Where("sucursal_id = ? AND cierre_id IS NULL", sucursalID).
		Order("fecha ASC").
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) AsignarCierreTx(tx *gorm.DB, ids []uuid.UUID, cierreID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Model(&model.Gasto{}).
		Where("id IN ? AND cierre_id IS NULL", ids).
		Update("cierre_id", cierreID)
	return res.RowsAffected, res.Error
}
