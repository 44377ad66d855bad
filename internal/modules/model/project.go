package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TrainingStatusTraining = "training"
	TrainingStatusSuccess  = "success"
	TrainingStatusFailure  = "failure"
)

type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Namespace string    `gorm:"type:text;not null;uniqueIndex:uq_project_namespace" json:"namespace"`

	DefaultLanguage string `gorm:"type:text;not null;default:'en'" json:"default_language"`
	// yaml blob merged into extracted domains
	DefaultDomain          string      `gorm:"type:text" json:"default_domain"`
	DeploymentEnvironments []string    `gorm:"type:jsonb;serializer:json" json:"deployment_environments"`
	NLUModels              []uuid.UUID `gorm:"type:jsonb;serializer:json" json:"nlu_models"`
	NLUThreshold           float64     `gorm:"not null;default:0.75" json:"nlu_threshold"`

	Training   TrainingState `gorm:"type:jsonb;serializer:json" json:"training"`
	InstanceID *uuid.UUID    `gorm:"type:uuid" json:"instance_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TrainingState is stored verbatim as reported by the trainer; Status is not
// restricted to the known constants.
type TrainingState struct {
	Status    string     `json:"status,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Message   string     `json:"message,omitempty"`
}

func (Project) TableName() string { return "projects" }
