package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sucursal is a physical branch owning machines, readings, expenses and closings.
// Its row is locked while confirming or closing so those two never interleave.
type Sucursal struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CasinoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre       string          `gorm:"type:varchar(150);not null"`
	BaseMonedas  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	BaseBilletes decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Activo       bool            `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Sucursal) TableName() string { return "sucursales" }

func (s *Sucursal) BeforeCreate(_ *gorm.DB) error {
	asignarID(&s.ID)
	return nil
}
