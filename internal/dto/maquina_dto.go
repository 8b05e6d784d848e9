package dto

import (
	"github.com/shopspring/decimal"
)

type CrearMaquinaRequest struct {
	NDI           string          `json:"ndi"            validate:"required,max=50"`
	SucursalID    *string         `json:"sucursal_id"    validate:"omitempty,uuid"`
	Nombre        string          `json:"nombre"         validate:"required,max=150"`
	CodigoInterno *string         `json:"codigo_interno" validate:"omitempty,max=50"`
	Denominacion  decimal.Decimal `json:"denominacion"   validate:"required,gt=0"`
}

type ActualizarMaquinaRequest struct {
	NDI           string          `json:"ndi"            validate:"required,max=50"`
	Nombre        string          `json:"nombre"         validate:"required,max=150"`
	CodigoInterno *string         `json:"codigo_interno" validate:"omitempty,max=50"`
	Denominacion  decimal.Decimal `json:"denominacion"   validate:"required,gt=0"`
	Activa        bool            `json:"activa"`
}

type TransferirMaquinaRequest struct {
	SucursalDestinoID string `json:"sucursal_destino_id" validate:"required,uuid"`
}

type MaquinaResponse struct {
	ID              string          `json:"id"`
	NDI             string          `json:"ndi"`
	SucursalID      string          `json:"sucursal_id"`
	Nombre          string          `json:"nombre"`
	CodigoInterno   *string         `json:"codigo_interno"`
	Denominacion    decimal.Decimal `json:"denominacion"`
	UltimoNetoFinal decimal.Decimal `json:"ultimo_neto_final"`
	Activa          bool            `json:"activa"`
}
