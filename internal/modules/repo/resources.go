package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

type InstanceRepo interface {
	Create(ctx context.Context, i *model.Instance) error
}

type instanceRepo struct{ db *gorm.DB }

func NewInstanceRepo(db *gorm.DB) InstanceRepo {
	return &instanceRepo{db: db}
}

func (r *instanceRepo) Create(ctx context.Context, i *model.Instance) error {
	return r.db.WithContext(ctx).Create(i).Error
}

type CorePolicyRepo interface {
	Create(ctx context.Context, p *model.CorePolicy) error
}

type corePolicyRepo struct{ db *gorm.DB }

func NewCorePolicyRepo(db *gorm.DB) CorePolicyRepo {
	return &corePolicyRepo{db: db}
}

func (r *corePolicyRepo) Create(ctx context.Context, p *model.CorePolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

type CredentialsRepo interface {
	Create(ctx context.Context, c *model.Credentials) error
}

type credentialsRepo struct{ db *gorm.DB }

func NewCredentialsRepo(db *gorm.DB) CredentialsRepo {
	return &credentialsRepo{db: db}
}

func (r *credentialsRepo) Create(ctx context.Context, c *model.Credentials) error {
	return r.db.WithContext(ctx).Create(c).Error
}

type EndpointsRepo interface {
	Create(ctx context.Context, e *model.Endpoints) error
}

type endpointsRepo struct{ db *gorm.DB }

func NewEndpointsRepo(db *gorm.DB) EndpointsRepo {
	return &endpointsRepo{db: db}
}

func (r *endpointsRepo) Create(ctx context.Context, e *model.Endpoints) error {
	return r.db.WithContext(ctx).Create(e).Error
}

type DeploymentRepo interface {
	Create(ctx context.Context, d *model.Deployment) error
}

type deploymentRepo struct{ db *gorm.DB }

func NewDeploymentRepo(db *gorm.DB) DeploymentRepo {
	return &deploymentRepo{db: db}
}

func (r *deploymentRepo) Create(ctx context.Context, d *model.Deployment) error {
	return r.db.WithContext(ctx).Create(d).Error
}

type StoryGroupRepo interface {
	Create(ctx context.Context, g *model.StoryGroup) error
}

type storyGroupRepo struct{ db *gorm.DB }

func NewStoryGroupRepo(db *gorm.DB) StoryGroupRepo {
	return &storyGroupRepo{db: db}
}

func (r *storyGroupRepo) Create(ctx context.Context, g *model.StoryGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

type StoryRepo interface {
	Create(ctx context.Context, s *model.Story) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Story, error)
}

type storyRepo struct{ db *gorm.DB }

func NewStoryRepo(db *gorm.DB) StoryRepo {
	return &storyRepo{db: db}
}

func (r *storyRepo) Create(ctx context.Context, s *model.Story) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storyRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Story, error) {
	var out []*model.Story
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&out).Error
	return out, err
}

type SlotRepo interface {
	Create(ctx context.Context, s *model.Slot) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Slot, error)
}

type slotRepo struct{ db *gorm.DB }

func NewSlotRepo(db *gorm.DB) SlotRepo {
	return &slotRepo{db: db}
}

func (r *slotRepo) Create(ctx context.Context, s *model.Slot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *slotRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Slot, error) {
	var out []*model.Slot
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("name ASC").Find(&out).Error
	return out, err
}

type BotResponseRepo interface {
	Create(ctx context.Context, b *model.BotResponse) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.BotResponse, error)
}

type botResponseRepo struct{ db *gorm.DB }

func NewBotResponseRepo(db *gorm.DB) BotResponseRepo {
	return &botResponseRepo{db: db}
}

func (r *botResponseRepo) Create(ctx context.Context, b *model.BotResponse) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *botResponseRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.BotResponse, error) {
	var out []*model.BotResponse
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("key ASC").Find(&out).Error
	return out, err
}
