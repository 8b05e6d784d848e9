package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Retencion records the tax withheld from a prize paid to a player. It is a
// branch ledger of its own; closings never absorb it.
type Retencion struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SucursalID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_retenciones_sucursal_fecha,priority:1"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	Fecha          time.Time       `gorm:"type:date;not null;index:idx_retenciones_sucursal_fecha,priority:2"`
	Cedula         string          `gorm:"type:varchar(20);not null;index"`
	Nombre         string          `gorm:"type:varchar(255);not null"`
	ValorPremio    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ValorRetencion decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Observacion    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Retencion) TableName() string { return "retenciones" }

func (r *Retencion) BeforeCreate(_ *gorm.DB) error {
	asignarID(&r.ID)
	return nil
}
