package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor is the payee of an expense. Providers are registered per branch.
type Proveedor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SucursalID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre         string    `gorm:"not null"`
	Identificacion *string   `gorm:"type:varchar(30)"`
	Telefono       *string
	Activo         bool `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

func (p *Proveedor) BeforeCreate(_ *gorm.DB) error {
	asignarID(&p.ID)
	return nil
}
