package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearLecturaRequest carries raw counters. Salida and Jackpots default to 0.
// NetoInicial is ignored for cajeros; their carry-in always comes from the machine.
type CrearLecturaRequest struct {
	MaquinaID   string           `json:"maquina_id"   validate:"required,uuid"`
	Fecha       string           `json:"fecha"        validate:"omitempty,datetime=2006-01-02"`
	Entrada     *decimal.Decimal `json:"entrada"      validate:"required,min=0"`
	Salida      *decimal.Decimal `json:"salida"       validate:"omitempty,min=0"`
	Jackpots    *decimal.Decimal `json:"jackpots"     validate:"omitempty,min=0"`
	NetoInicial *decimal.Decimal `json:"neto_inicial"`
}

type EditarLecturaRequest struct {
	Entrada  *decimal.Decimal `json:"entrada"  validate:"required,min=0"`
	Salida   *decimal.Decimal `json:"salida"   validate:"omitempty,min=0"`
	Jackpots *decimal.Decimal `json:"jackpots" validate:"omitempty,min=0"`
}

// ConfirmarLecturasRequest: SucursalID is required for master_admin and
// casino_admin; other roles always confirm their own branch.
type ConfirmarLecturasRequest struct {
	SucursalID *string `json:"sucursal_id" validate:"omitempty,uuid"`
}

type LecturaFilter struct {
	SucursalID string `form:"sucursal_id"`
	MaquinaID  string `form:"maquina_id"`
	Desde      string `form:"desde"`
	Hasta      string `form:"hasta"`
	Estado     string `form:"estado"` // pendiente | confirmada | cerrada | abierta
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LecturaResponse struct {
	ID                string          `json:"id"`
	SucursalID        string          `json:"sucursal_id"`
	MaquinaID         string          `json:"maquina_id"`
	MaquinaNDI        string          `json:"maquina_ndi,omitempty"`
	UsuarioID         string          `json:"usuario_id"`
	Fecha             string          `json:"fecha"`
	Entrada           decimal.Decimal `json:"entrada"`
	Salida            decimal.Decimal `json:"salida"`
	Jackpots          decimal.Decimal `json:"jackpots"`
	NetoInicial       decimal.Decimal `json:"neto_inicial"`
	NetoFinal         decimal.Decimal `json:"neto_final"`
	TotalCreditos     decimal.Decimal `json:"total_creditos"`
	TotalRecaudo      decimal.Decimal `json:"total_recaudo"`
	Confirmado        bool            `json:"confirmado"`
	FechaConfirmacion *time.Time      `json:"fecha_confirmacion"`
	CierreID          *string         `json:"cierre_id"`
}

// EdicionLecturaResponse reports the edited reading plus how many later
// readings were recomputed by the cascade.
type EdicionLecturaResponse struct {
	Lectura      LecturaResponse `json:"lectura"`
	Recalculadas int             `json:"recalculadas"`
}

type ConfirmacionResponse struct {
	SucursalID        string    `json:"sucursal_id"`
	Confirmadas       int       `json:"confirmadas"`
	FechaConfirmacion time.Time `json:"fecha_confirmacion"`
}

type LecturaListResponse struct {
	Data  []LecturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
