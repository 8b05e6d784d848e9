package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Nombre     string  `json:"nombre"`
	Email      *string `json:"email"`
	Rol        string  `json:"rol"`
	CasinoID   *string `json:"casino_id"`
	SucursalID *string `json:"sucursal_id"`
	Activo     bool    `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

// CrearUsuarioRequest: casino_admin may only create sucursal_admin and cajero
// users inside its own casino.
type CrearUsuarioRequest struct {
	Username   string  `json:"username"    validate:"required,min=3,max=50"`
	Nombre     string  `json:"nombre"      validate:"required,min=2"`
	Email      *string `json:"email"       validate:"omitempty,email"`
	Password   string  `json:"password"    validate:"required,min=8"`
	Rol        string  `json:"rol"         validate:"required,oneof=master_admin casino_admin sucursal_admin cajero"`
	CasinoID   *string `json:"casino_id"   validate:"omitempty,uuid"`
	SucursalID *string `json:"sucursal_id" validate:"omitempty,uuid"`
}
