package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

type NLUModelRepo interface {
	Create(ctx context.Context, m *model.NLUModel) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.NLUModel, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.NLUModel, error)
}

type nluModelRepo struct{ db *gorm.DB }

func NewNLUModelRepo(db *gorm.DB) NLUModelRepo {
	return &nluModelRepo{db: db}
}

func (r *nluModelRepo) Create(ctx context.Context, m *model.NLUModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *nluModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.NLUModel, error) {
	var m model.NLUModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *nluModelRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.NLUModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []*model.NLUModel
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}
