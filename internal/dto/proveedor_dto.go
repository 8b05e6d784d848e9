package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	SucursalID     *string `json:"sucursal_id"    validate:"omitempty,uuid"`
	Nombre         string  `json:"nombre"         validate:"required,min=2,max=150"`
	Identificacion *string `json:"identificacion" validate:"omitempty,max=30"`
	Telefono       *string `json:"telefono"       validate:"omitempty,max=30"`
}

type CrearTipoGastoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID             string  `json:"id"`
	SucursalID     string  `json:"sucursal_id"`
	Nombre         string  `json:"nombre"`
	Identificacion *string `json:"identificacion"`
	Telefono       *string `json:"telefono"`
	Activo         bool    `json:"activo"`
}

type TipoGastoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
