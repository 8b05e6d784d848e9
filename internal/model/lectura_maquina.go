package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LecturaMaquina is one dated snapshot of a machine's cumulative counters.
//
// Derived fields:
//
//	neto_final     = entrada - salida - jackpots
//	total_creditos = neto_final - neto_inicial
//	total_recaudo  = total_creditos * maquina.denominacion
//
// CierreID is set once by a closing and never reset.
type LecturaMaquina struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SucursalID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_lecturas_sucursal_fecha,priority:1;uniqueIndex:uq_lecturas_maquina_sucursal_fecha,priority:2"`
	MaquinaID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_lecturas_maquina_sucursal_fecha,priority:1"`
	UsuarioID         uuid.UUID       `gorm:"type:uuid;not null"`
	Fecha             time.Time       `gorm:"type:date;not null;index:idx_lecturas_sucursal_fecha,priority:2;uniqueIndex:uq_lecturas_maquina_sucursal_fecha,priority:3"`
	Entrada           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Salida            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Jackpots          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NetoInicial       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NetoFinal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalCreditos     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalRecaudo      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Confirmado        bool            `gorm:"not null;index"`
	FechaConfirmacion *time.Time
	CierreID          *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Maquina *Maquina `gorm:"foreignKey:MaquinaID"`
}

func (LecturaMaquina) TableName() string { return "lecturas_maquinas" }

func (l *LecturaMaquina) BeforeCreate(_ *gorm.DB) error {
	asignarID(&l.ID)
	return nil
}

// Pendiente is true while the reading awaits confirmation and is not yet closed.
func (l *LecturaMaquina) Pendiente() bool { return !l.Confirmado && l.CierreID == nil }

func (l *LecturaMaquina) Cerrada() bool { return l.CierreID != nil }
