package repository

import (
	"context"

	"gamblerpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaquinaRepository is the machine registry. UltimoNetoFinal is only written
// through SetUltimoNetoFinalTx, inside the same transaction as the reading
// mutation that changed it.
type MaquinaRepository interface {
	Create(ctx context.Context, m *model.Maquina) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Maquina, error)
	FindByNDI(ctx context.Context, ndi string) (*model.Maquina, error)
	ListBySucursal(ctx context.Context, sucursalID uuid.UUID, soloActivas bool) ([]model.Maquina, error)
	// Update writes the operator-editable columns, including sucursal_id for transfers.
	Update(ctx context.Context, m *model.Maquina) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions: callers must pass the tx instance
	LockTx(tx *gorm.DB, id uuid.UUID) (*model.Maquina, error)
	SetUltimoNetoFinalTx(tx *gorm.DB, id uuid.UUID, valor decimal.Decimal) error

	DB() *gorm.DB
}

type maquinaRepo struct{ db *gorm.DB }

func NewMaquinaRepository(db *gorm.DB) MaquinaRepository { return &maquinaRepo{db: db} }

func (r *maquinaRepo) DB() *gorm.DB { return r.db }

func (r *maquinaRepo) Create(ctx context.Context, m *model.Maquina) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *maquinaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Maquina, error) {
	var m model.Maquina
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *maquinaRepo) FindByNDI(ctx context.Context, ndi string) (*model.Maquina, error) {
	var m model.Maquina
	if err := r.db.WithContext(ctx).Where("ndi = ?", ndi).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *maquinaRepo) ListBySucursal(ctx context.Context, sucursalID uuid.UUID, soloActivas bool) ([]model.Maquina, error) {
	var maquinas []model.Maquina
	q := r.db.WithContext(ctx).Where("sucursal_id = ?", sucursalID)
	if soloActivas {
		q = q.Where("activa = ?", true)
	}
	err := q.Order("ndi ASC").Find(&maquinas).Error
	return maquinas, err
}

func (r *maquinaRepo) Update(ctx context.Context, m *model.Maquina) error {
	return r.db.WithContext(ctx).Model(m).
		Select("ndi", "nombre", "codigo_interno", "denominacion", "activa", "sucursal_id").
		Updates(m).Error
}

func (r *maquinaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Maquina{}).Error
}

func (r *maquinaRepo) LockTx(tx *gorm.DB, id uuid.UUID) (*model.Maquina, error) {
	var m model.Maquina
	if err := tx.Clauses(paraActualizar).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *maquinaRepo) SetUltimoNetoFinalTx(tx *gorm.DB, id uuid.UUID, valor decimal.Decimal) error {
	res := tx.Model(&model.Maquina{}).Where("id = ?", id).Update("ultimo_neto_final", valor)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
