package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	// UpdateFields applies a partial update; callers strip immutable keys.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	SetInstanceID(ctx context.Context, id uuid.UUID, instanceID uuid.UUID) error
	SetTraining(ctx context.Context, id uuid.UUID, training model.TrainingState) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&projects).Error
	return projects, err
}

func (r *projectRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *projectRepo) SetInstanceID(ctx context.Context, id uuid.UUID, instanceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Update("instance_id", instanceID).Error
}

func (r *projectRepo) SetTraining(ctx context.Context, id uuid.UUID, training model.TrainingState) error {
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Update("training", training).Error
}
