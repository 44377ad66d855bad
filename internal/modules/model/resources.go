package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Dependent resources reference their project through a plain indexed column.
// There is deliberately no database-level cascade: teardown is driven by the
// ordered deletion manifest in the repo layer.

type Instance struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_instance_project_id" json:"project_id"`
	Host      string    `gorm:"type:text;not null" json:"host"`
	Token     string    `gorm:"type:text" json:"token"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Instance) TableName() string { return "instances" }

type CorePolicy struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_core_policy_project_id" json:"project_id"`
	Policies  string    `gorm:"type:text;not null" json:"policies"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CorePolicy) TableName() string { return "core_policies" }

type Credentials struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index:ix_credentials_project_id" json:"project_id"`
	Environment string    `gorm:"type:text;not null;default:'development'" json:"environment"`
	Credentials string    `gorm:"type:text;not null" json:"credentials"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Credentials) TableName() string { return "credentials" }

type Endpoints struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index:ix_endpoints_project_id" json:"project_id"`
	Environment string    `gorm:"type:text;not null;default:'development'" json:"environment"`
	Endpoints   string    `gorm:"type:text;not null" json:"endpoints"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Endpoints) TableName() string { return "endpoints" }

type Deployment struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID         `gorm:"type:uuid;not null;index:ix_deployment_project_id" json:"project_id"`
	Status    string            `gorm:"type:text;not null;default:'pending'" json:"status"`
	Config    datatypes.JSONMap `gorm:"type:jsonb" json:"config"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Deployment) TableName() string { return "deployments" }

type StoryGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_story_group_project_id" json:"project_id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Intro     bool      `gorm:"not null;default:false" json:"intro"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (StoryGroup) TableName() string { return "story_groups" }

type Story struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID    uuid.UUID     `gorm:"type:uuid;not null;index:ix_story_project_id" json:"project_id"`
	StoryGroupID uuid.UUID     `gorm:"type:uuid;not null;index:ix_story_group_id" json:"story_group_id"`
	Title        string        `gorm:"type:text;not null" json:"title"`
	Story        string        `gorm:"type:text" json:"story"`
	Branches     []StoryBranch `gorm:"type:jsonb;serializer:json" json:"branches"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type StoryBranch struct {
	Title    string        `json:"title"`
	Story    string        `json:"story"`
	Branches []StoryBranch `json:"branches,omitempty"`
}

func (Story) TableName() string { return "stories" }

type Slot struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index:ix_slot_project_id" json:"project_id"`
	Name         string    `gorm:"type:text;not null" json:"name"`
	Type         string    `gorm:"type:text;not null;default:'unfeaturized'" json:"type"`
	InitialValue string    `gorm:"type:text" json:"initial_value,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Slot) TableName() string { return "slots" }

type Conversation struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index:ix_conversation_project_id" json:"project_id"`
	Environment string         `gorm:"type:text;not null;default:'development'" json:"environment"`
	Status      string         `gorm:"type:text;not null;default:'new'" json:"status"`
	Tracker     datatypes.JSON `gorm:"type:jsonb" json:"tracker"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

type BotResponse struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID         `gorm:"type:uuid;not null;index:ix_bot_response_project_id;uniqueIndex:uq_bot_response_key,priority:1" json:"project_id"`
	Key       string            `gorm:"type:text;not null;uniqueIndex:uq_bot_response_key,priority:2" json:"key"`
	Values    datatypes.JSONMap `gorm:"type:jsonb" json:"values"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (BotResponse) TableName() string { return "bot_responses" }
