package dto

import (
	"github.com/shopspring/decimal"
)

type RegistrarGastoRequest struct {
	SucursalID  *string         `json:"sucursal_id"   validate:"omitempty,uuid"`
	TipoGastoID string          `json:"tipo_gasto_id" validate:"required,uuid"`
	ProveedorID string          `json:"proveedor_id"  validate:"required,uuid"`
	Fecha       string          `json:"fecha"         validate:"omitempty,datetime=2006-01-02"`
	Valor       decimal.Decimal `json:"valor"         validate:"required,gt=0"`
	Descripcion *string         `json:"descripcion"   validate:"omitempty,max=500"`
}

type ActualizarGastoRequest struct {
	TipoGastoID string          `json:"tipo_gasto_id" validate:"required,uuid"`
	ProveedorID string          `json:"proveedor_id"  validate:"required,uuid"`
	Fecha       string          `json:"fecha"         validate:"required,datetime=2006-01-02"`
	Valor       decimal.Decimal `json:"valor"         validate:"required,gt=0"`
	Descripcion *string         `json:"descripcion"   validate:"omitempty,max=500"`
}

type GastoFilter struct {
	SucursalID string `form:"sucursal_id"`
	Desde      string `form:"desde"`
	Hasta      string `form:"hasta"`
	Estado     string `form:"estado"` // abierto | cerrado | todos
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type GastoResponse struct {
	ID          string          `json:"id"`
	SucursalID  string          `json:"sucursal_id"`
	TipoGastoID string          `json:"tipo_gasto_id"`
	TipoGasto   string          `json:"tipo_gasto,omitempty"`
	ProveedorID string          `json:"proveedor_id"`
	Proveedor   string          `json:"proveedor,omitempty"`
	UsuarioID   string          `json:"usuario_id"`
	Fecha       string          `json:"fecha"`
	Valor       decimal.Decimal `json:"valor"`
	Descripcion *string         `json:"descripcion"`
	CierreID    *string         `json:"cierre_id"`
}

type GastoListResponse struct {
	Data  []GastoResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
