package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is a logged user utterance with its NLU prediction, keyed by
// the model that produced it.
type ActivityLog struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ModelID uuid.UUID `gorm:"type:uuid;not null;index:ix_activity_log_model_id" json:"model_id"`

	Text       string           `gorm:"type:text;not null" json:"text"`
	Intent     string           `gorm:"type:text" json:"intent"`
	Confidence float64          `gorm:"not null;default:0" json:"confidence"`
	Entities   []ActivityEntity `gorm:"type:jsonb;serializer:json" json:"entities"`
	Validated  bool             `gorm:"not null;default:false" json:"validated"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type ActivityEntity struct {
	Entity     string  `json:"entity"`
	Value      string  `json:"value,omitempty"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
