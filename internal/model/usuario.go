package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Usuario stores system users with role-based access.
// Rol: "master_admin" | "casino_admin" | "sucursal_admin" | "cajero"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// CasinoID scopes casino_admin; SucursalID pins sucursal_admin and cajero.
	CasinoID   *uuid.UUID `gorm:"type:uuid"`
	SucursalID *uuid.UUID `gorm:"type:uuid"`
	Activo     bool       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(_ *gorm.DB) error {
	asignarID(&u.ID)
	return nil
}
