package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CierreCaja is a write-once settlement of every open reading and expense of a
// branch. total_cierre = total_recaudado - total_gastos over exactly the rows
// whose cierre_id points here.
type CierreCaja struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SucursalID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null"`
	FechaInicio    time.Time       `gorm:"type:date;not null"`
	FechaFin       time.Time       `gorm:"type:date;not null"`
	TotalRecaudado decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalGastos    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalCierre    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Observaciones  *string
	CreatedAt      time.Time

	Lecturas []LecturaMaquina `gorm:"foreignKey:CierreID"`
	Gastos   []Gasto          `gorm:"foreignKey:CierreID"`
}

func (CierreCaja) TableName() string { return "cierres_caja" }

func (c *CierreCaja) BeforeCreate(_ *gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
