package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Routing keys published to the project events exchange.
const (
	RKProjectCreated  = "project.created"
	RKProjectUpdated  = "project.updated"
	RKProjectDeleted  = "project.deleted"
	RKTrainingStarted = "training.started"
	RKTrainingStopped = "training.stopped"
)

// EventPublisher is satisfied by the rabbitmq publisher; services hold the
// interface so tests can capture events.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

type ProjectEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
	Namespace string    `json:"namespace,omitempty"`
	At        time.Time `json:"at"`
}

type TrainingEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}
