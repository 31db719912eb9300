package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel provides the id and timestamps shared by uuid-keyed tables
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// All returns every model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UnitModel{},
		&ConversionModel{},
		&ProductModel{},
		&PackagingModel{},
		&PriceTierModel{},
	}
}
