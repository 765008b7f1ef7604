package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner is an external funding partner (investor) deals are released to.
type Partner struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	FirmName  string         `json:"firm_name,omitempty"`
	Email     string         `gorm:"uniqueIndex" json:"email"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Partner) TableName() string { return "partner" }
