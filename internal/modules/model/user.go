package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email string    `gorm:"type:text;not null;uniqueIndex:uq_user_email" json:"email"`

	// API key lookup hash and optional slow-verification hash
	APIKeyHMAC string `gorm:"type:text;not null;uniqueIndex:uq_user_api_key_hmac" json:"-"`
	APIKeyPHC  string `gorm:"type:text" json:"-"`

	GlobalRoles []string `gorm:"type:jsonb;serializer:json" json:"global_roles"`
	// project id → role names
	Roles map[string][]string `gorm:"type:jsonb;serializer:json" json:"roles"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }
