package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

type UserRepo interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByAPIKeyHMAC(ctx context.Context, hmac string) (*model.User, error)
	// UpdateAPIKey replaces the stored key digests for the user.
	UpdateAPIKey(ctx context.Context, id uuid.UUID, hmac, phc string) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByAPIKeyHMAC(ctx context.Context, hmac string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("api_key_hmac = ?", hmac).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) UpdateAPIKey(ctx context.Context, id uuid.UUID, hmac, phc string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"api_key_hmac": hmac, "api_key_phc": phc}).Error
}
