package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity entity. Family members reference each
// other through FamilyID.
type User struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string     `gorm:"column:email;not null;uniqueIndex"`
	FirstName string     `gorm:"column:first_name;not null"`
	LastName  string     `gorm:"column:last_name;not null"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	FamilyID  *uuid.UUID `gorm:"column:family_id;type:uuid;index"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
