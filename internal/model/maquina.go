package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Maquina is a slot machine. UltimoNetoFinal caches the neto_final of the latest
// reading in its chain and must be rewritten on every reading mutation.
type Maquina struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NDI             string          `gorm:"column:ndi;type:varchar(50);uniqueIndex;not null"`
	SucursalID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre          string          `gorm:"type:varchar(150);not null"`
	CodigoInterno   *string         `gorm:"type:varchar(50)"`
	Denominacion    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UltimoNetoFinal decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Activa          bool            `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Maquina) TableName() string { return "maquinas" }

func (m *Maquina) BeforeCreate(_ *gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
