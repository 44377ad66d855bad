package model

import (
	"time"

	"github.com/google/uuid"
)

type NLUModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string    `gorm:"type:text;not null" json:"name"`
	Language string    `gorm:"type:text;not null" json:"language"`
	Config   string    `gorm:"type:text" json:"config"`

	TrainingData TrainingData `gorm:"type:jsonb;serializer:json" json:"training_data"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type TrainingData struct {
	CommonExamples []CommonExample `json:"common_examples"`
}

type CommonExample struct {
	Text      string          `json:"text"`
	Intent    string          `json:"intent"`
	Entities  []ExampleEntity `json:"entities,omitempty"`
	Canonical bool            `json:"canonical,omitempty"`
}

type ExampleEntity struct {
	Entity string `json:"entity"`
	Value  string `json:"value,omitempty"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

func (NLUModel) TableName() string { return "nlu_models" }
