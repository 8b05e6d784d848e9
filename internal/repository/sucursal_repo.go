package repository

import (
	"context"

	"gamblerpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SucursalRepository interface {
	CreateCasino(ctx context.Context, c *model.Casino) error
	Create(ctx context.Context, s *model.Sucursal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	// LockTx reads the branch row FOR UPDATE. Confirmation and closing take this
	// lock first so they serialise per branch.
	LockTx(tx *gorm.DB, id uuid.UUID) (*model.Sucursal, error)
	List(ctx context.Context, casinoID *uuid.UUID) ([]model.Sucursal, error)
}

type sucursalRepo struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository { return &sucursalRepo{db: db} }

func (r *sucursalRepo) CreateCasino(ctx context.Context, c *model.Casino) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *sucursalRepo) Create(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sucursalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sucursalRepo) LockTx(tx *gorm.DB, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	if err := tx.Clauses(paraActualizar).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sucursalRepo) List(ctx context.Context, casinoID *uuid.UUID) ([]model.Sucursal, error) {
	var sucursales []model.Sucursal
	q := r.db.WithContext(ctx).Where("activo = ?", true)
	if casinoID != nil {
		q = q.Where("casino_id = ?", *casinoID)
	}
	err := q.Order("nombre ASC").Find(&sucursales).Error
	return sucursales, err
}
