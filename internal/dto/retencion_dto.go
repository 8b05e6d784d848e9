package dto

import (
	"github.com/shopspring/decimal"
)

type RegistrarRetencionRequest struct {
	SucursalID  *string         `json:"sucursal_id"  validate:"omitempty,uuid"`
	Fecha       string          `json:"fecha"        validate:"omitempty,datetime=2006-01-02"`
	Cedula      string          `json:"cedula"       validate:"required,max=20"`
	Nombre      string          `json:"nombre"       validate:"required,max=255"`
	ValorPremio decimal.Decimal `json:"valor_premio" validate:"gte=0"`
	Observacion *string         `json:"observacion"  validate:"omitempty,max=1000"`
}

// ActualizarRetencionRequest cannot move the record to another branch.
type ActualizarRetencionRequest struct {
	Fecha       string          `json:"fecha"        validate:"required,datetime=2006-01-02"`
	Cedula      string          `json:"cedula"       validate:"required,max=20"`
	Nombre      string          `json:"nombre"       validate:"required,max=255"`
	ValorPremio decimal.Decimal `json:"valor_premio" validate:"gte=0"`
	Observacion *string         `json:"observacion"  validate:"omitempty,max=1000"`
}

// RetencionFilter defaults to today's records when Fecha is empty.
type RetencionFilter struct {
	CasinoID   string `form:"casino_id"`
	SucursalID string `form:"sucursal_id"`
	Fecha      string `form:"fecha"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type RetencionResponse struct {
	ID             string          `json:"id"`
	SucursalID     string          `json:"sucursal_id"`
	UsuarioID      string          `json:"usuario_id"`
	Fecha          string          `json:"fecha"`
	Cedula         string          `json:"cedula"`
	Nombre         string          `json:"nombre"`
	ValorPremio    decimal.Decimal `json:"valor_premio"`
	ValorRetencion decimal.Decimal `json:"valor_retencion"`
	Observacion    *string         `json:"observacion"`
}

// RetencionListResponse carries the page plus totals over every matching row.
type RetencionListResponse struct {
	Data             []RetencionResponse `json:"data"`
	Fecha            string              `json:"fecha"`
	TotalPremios     decimal.Decimal     `json:"total_premios"`
	TotalRetenciones decimal.Decimal     `json:"total_retenciones"`
	Total            int64               `json:"total"`
	Page             int                 `json:"page"`
	Limit            int                 `json:"limit"`
}
