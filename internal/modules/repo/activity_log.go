package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

type ActivityLogRepo interface {
	Create(ctx context.Context, l *model.ActivityLog) error
	ListByModel(ctx context.Context, modelID uuid.UUID) ([]*model.ActivityLog, error)
	GetByIDs(ctx context.Context, modelID uuid.UUID, ids []uuid.UUID) ([]*model.ActivityLog, error)
}

type activityLogRepo struct{ db *gorm.DB }

func NewActivityLogRepo(db *gorm.DB) ActivityLogRepo {
	return &activityLogRepo{db: db}
}

func (r *activityLogRepo) Create(ctx context.Context, l *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *activityLogRepo) ListByModel(ctx context.Context, modelID uuid.UUID) ([]*model.ActivityLog, error) {
	var out []*model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("model_id = ?", modelID).
		Order("updated_at DESC").
		Find(&out).Error
	return out, err
}

func (r *activityLogRepo) GetByIDs(ctx context.Context, modelID uuid.UUID, ids []uuid.UUID) ([]*model.ActivityLog, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []*model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("model_id = ? AND id IN ?", modelID, ids).
		Find(&out).Error
	return out, err
}
