package repository

import (
	"context"
	"time"

	"gamblerpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RetencionFiltro struct {
	SucursalID *uuid.UUID
	CasinoID   *uuid.UUID
	Fecha      time.Time
	Page       int
	Limit      int
}

// TotalesRetencion sums every row matching a filter, not just one page.
type TotalesRetencion struct {
	Premios     decimal.Decimal
	Retenciones decimal.Decimal
}

type RetencionRepository interface {
	Create(ctx context.Context, r *model.Retencion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Retencion, error)
	Update(ctx context.Context, r *model.Retencion) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f RetencionFiltro) ([]model.Retencion, int64, TotalesRetencion, error)
}

type retencionRepo struct{ db *gorm.DB }

func NewRetencionRepository(db *gorm.DB) RetencionRepository { return &retencionRepo{db: db} }

func (r *retencionRepo) Create(ctx context.Context, ret *model.Retencion) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *retencionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Retencion, error) {
	var ret model.Retencion
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ret).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *retencionRepo) Update(ctx context.Context, ret *model.Retencion) error {
	return r.db.WithContext(ctx).Model(&model.Retencion{}).Where("id = ?", ret.ID).Updates(map[string]any{
		"fecha":           ret.Fecha,
		"cedula":          ret.Cedula,
		"nombre":          ret.Nombre,
		"valor_premio":    ret.ValorPremio,
		"valor_retencion": ret.ValorRetencion,
		"observacion":     ret.Observacion,
	}).Error
}

func (r *retencionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Retencion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *retencionRepo) List(ctx context.Context, f RetencionFiltro) ([]model.Retencion, int64, TotalesRetencion, error) {
	var tot TotalesRetencion
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Retencion{}).Where("fecha = ?", f.Fecha)
		if f.SucursalID != nil {
			q = q.Where("sucursal_id = ?", *f.SucursalID)
		}
		if f.CasinoID != nil {
			q = q.Where("sucursal_id IN (?)",
				r.db.Model(&model.Sucursal{}).Select("id").Where("casino_id = ?", *f.CasinoID))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, tot, err
	}

	var sumas struct {
		Premios     decimal.NullDecimal
		Retenciones decimal.NullDecimal
	}
	err := base().
		Select("SUM(valor_premio) AS premios, SUM(valor_retencion) AS retenciones").
		Scan(&sumas).Error
	if err != nil {
		return nil, 0, tot, err
	}
	tot.Premios, tot.Retenciones = sumas.Premios.Decimal, sumas.Retenciones.Decimal

	offset, limit := paginar(f.Page, f.Limit)
	var rets []model.Retencion
	err = base().Order("created_at DESC").Offset(offset).Limit(limit).Find(&rets).Error
	return rets, total, tot, err
}
