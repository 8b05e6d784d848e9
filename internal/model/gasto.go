package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TipoGasto classifies expenses (rent, payroll, supplies…).
type TipoGasto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time
}

func (TipoGasto) TableName() string { return "tipos_gasto" }

func (t *TipoGasto) BeforeCreate(_ *gorm.DB) error {
	asignarID(&t.ID)
	return nil
}

// Gasto is a branch expense. Like readings, it is absorbed exactly once by a closing.
type Gasto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SucursalID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_gastos_sucursal_fecha,priority:1"`
	TipoGastoID uuid.UUID       `gorm:"type:uuid;not null"`
	ProveedorID uuid.UUID       `gorm:"type:uuid;not null"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null"`
	Fecha       time.Time       `gorm:"type:date;not null;index:idx_gastos_sucursal_fecha,priority:2"`
	Valor       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Descripcion *string
	CierreID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	TipoGasto *TipoGasto `gorm:"foreignKey:TipoGastoID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Gasto) TableName() string { return "gastos" }

func (g *Gasto) BeforeCreate(_ *gorm.DB) error {
	asignarID(&g.ID)
	return nil
}
