package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

// ProjectDeletion is the ordered teardown manifest for a project. Each step
// is a delete-by-filter and is idempotent, so a failed run can be retried
// from the top.
type ProjectDeletion struct {
	steps []deletionStep
}

type deletionStep struct {
	name string
	run  func(ctx context.Context, db *gorm.DB) error
}

func deleteWhere(m any, query string, args ...any) func(context.Context, *gorm.DB) error {
	return func(ctx context.Context, db *gorm.DB) error {
		return db.WithContext(ctx).Where(query, args...).Delete(m).Error
	}
}

// NewProjectDeletion builds the manifest. modelIDs is the project's NLU model
// list, captured before the project row is removed; model-scoped resources
// cannot be reached by project id alone.
func NewProjectDeletion(projectID uuid.UUID, modelIDs []uuid.UUID) *ProjectDeletion {
	byModel := func(m any) func(context.Context, *gorm.DB) error {
		if len(modelIDs) == 0 {
			return func(context.Context, *gorm.DB) error { return nil }
		}
		return func(ctx context.Context, db *gorm.DB) error {
			return db.WithContext(ctx).Where("model_id IN ?", modelIDs).Delete(m).Error
		}
	}
	deleteModels := func(ctx context.Context, db *gorm.DB) error {
		if len(modelIDs) == 0 {
			return nil
		}
		return db.WithContext(ctx).Where("id IN ?", modelIDs).Delete(&model.NLUModel{}).Error
	}

	return &ProjectDeletion{steps: []deletionStep{
		{"nlu_models", deleteModels},
		{"activity_logs", byModel(&model.ActivityLog{})},
		{"instances", deleteWhere(&model.Instance{}, "project_id = ?", projectID)},
		{"core_policies", deleteWhere(&model.CorePolicy{}, "project_id = ?", projectID)},
		{"credentials", deleteWhere(&model.Credentials{}, "project_id = ?", projectID)},
		{"endpoints", deleteWhere(&model.Endpoints{}, "project_id = ?", projectID)},
		{"conversations", deleteWhere(&model.Conversation{}, "project_id = ?", projectID)},
		{"story_groups", deleteWhere(&model.StoryGroup{}, "project_id = ?", projectID)},
		{"stories", deleteWhere(&model.Story{}, "project_id = ?", projectID)},
		{"slots", deleteWhere(&model.Slot{}, "project_id = ?", projectID)},
		{"bot_responses", deleteWhere(&model.BotResponse{}, "project_id = ?", projectID)},
		{"projects", deleteWhere(&model.Project{}, "id = ?", projectID)},
		{"deployments", deleteWhere(&model.Deployment{}, "project_id = ?", projectID)},
		{"role_bindings", func(ctx context.Context, db *gorm.DB) error {
			return pruneProjectRoles(ctx, db, projectID.String())
		}},
	}}
}

// StepNames lists the manifest order, mostly for logs and tests.
func (d *ProjectDeletion) StepNames() []string {
	names := make([]string, len(d.steps))
	for i, s := range d.steps {
		names[i] = s.name
	}
	return names
}

// Execute runs every step in order and stops at the first failure.
func (d *ProjectDeletion) Execute(ctx context.Context, db *gorm.DB) error {
	for _, s := range d.steps {
		if err := s.run(ctx, db); err != nil {
			return fmt.Errorf("delete %s: %w", s.name, err)
		}
	}
	return nil
}

// CascadeRunner executes project teardown manifests against the database.
type CascadeRunner interface {
	DeleteProject(ctx context.Context, projectID uuid.UUID, modelIDs []uuid.UUID) error
}

type cascadeRunner struct{ db *gorm.DB }

func NewCascadeRunner(db *gorm.DB) CascadeRunner {
	return &cascadeRunner{db: db}
}

func (r *cascadeRunner) DeleteProject(ctx context.Context, projectID uuid.UUID, modelIDs []uuid.UUID) error {
	return NewProjectDeletion(projectID, modelIDs).Execute(ctx, r.db)
}

func pruneProjectRoles(ctx context.Context, db *gorm.DB, projectID string) error {
	var users []*model.User
	err := db.WithContext(ctx).
		Where(datatypes.JSONQuery("roles").HasKey(projectID)).
		Find(&users).Error
	if err != nil {
		return err
	}
	for _, u := range users {
		delete(u.Roles, projectID)
		if err := db.WithContext(ctx).
			Model(&model.User{}).
			Where("id = ?", u.ID).
			Update("roles", u.Roles).Error; err != nil {
			return err
		}
	}
	return nil
}
