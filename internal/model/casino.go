package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Casino groups branches. It only matters for scoping casino_admin actors.
type Casino struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"type:varchar(150);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Casino) TableName() string { return "casinos" }

func (c *Casino) BeforeCreate(_ *gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
