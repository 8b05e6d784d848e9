package repository

import (
	"context"

	"gamblerpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CierreFiltro struct {
	SucursalID *uuid.UUID
	// CasinoID restricts results to branches of one casino (casino_admin scope).
	CasinoID *uuid.UUID
	Page     int
	Limit    int
}

// CierreRepository never updates or deletes: closings are write-once.
type CierreRepository interface {
	CreateTx(tx *gorm.DB, c *model.CierreCaja) error
	// FindByID loads the closing with every reading and expense it absorbed.
	FindByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error)
	// List only loads the ids of absorbed rows, enough to count them.
	List(ctx context.Context, f CierreFiltro) ([]model.CierreCaja, int64, error)

	DB() *gorm.DB
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) DB() *gorm.DB { return r.db }

func (r *cierreRepo) CreateTx(tx *gorm.DB, c *model.CierreCaja) error {
	return tx.Omit("Lecturas", "Gastos").Create(c).Error
}

func (r *cierreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).
		Preload("Lecturas", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") }).
		Preload("Lecturas.Maquina").
		Preload("Gastos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") }).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cierreRepo) List(ctx context.Context, f CierreFiltro) ([]model.CierreCaja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CierreCaja{})
	if f.SucursalID != nil {
		q = q.Where("sucursal_id = ?", *f.SucursalID)
	}
	if f.CasinoID != nil {
		q = q.Where("sucursal_id IN (?)",
			r.db.Model(&model.Sucursal{}).Select("id").Where("casino_id = ?", *f.CasinoID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := paginar(f.Page, f.Limit)
	var cierres []model.CierreCaja
	soloIDs := func(db *gorm.DB) *gorm.DB { return db.Select("id", "cierre_id") }
	err := q.Preload("Lecturas", soloIDs).Preload("Gastos", soloIDs).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&cierres).Error
	return cierres, total, err
}
