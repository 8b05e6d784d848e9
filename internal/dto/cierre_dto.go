package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CerrarSucursalRequest struct {
	SucursalID    *string `json:"sucursal_id"   validate:"omitempty,uuid"`
	Observaciones *string `json:"observaciones" validate:"omitempty,max=1000"`
}

type CierreResponse struct {
	ID             string          `json:"id"`
	SucursalID     string          `json:"sucursal_id"`
	UsuarioID      string          `json:"usuario_id"`
	FechaInicio    string          `json:"fecha_inicio"`
	FechaFin       string          `json:"fecha_fin"`
	TotalRecaudado decimal.Decimal `json:"total_recaudado"`
	TotalGastos    decimal.Decimal `json:"total_gastos"`
	TotalCierre    decimal.Decimal `json:"total_cierre"`
	Observaciones  *string         `json:"observaciones"`
	CantLecturas   int             `json:"cant_lecturas"`
	CantGastos     int             `json:"cant_gastos"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CierreDetalleResponse includes every row the closing absorbed.
type CierreDetalleResponse struct {
	CierreResponse
	Lecturas []LecturaResponse `json:"lecturas"`
	Gastos   []GastoResponse   `json:"gastos"`
}

type CierreListResponse struct {
	Data  []CierreResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
