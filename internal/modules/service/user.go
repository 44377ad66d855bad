package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/config"
	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/modules/repo"
	"github.com/chatforge-io/chatforge/internal/pkg/utils/secrets"
	"github.com/chatforge-io/chatforge/internal/pkg/utils/tokens"
)

type UserService interface {
	// AuthenticateAPIKey resolves a raw "cf_..." key to its user.
	AuthenticateAPIKey(ctx context.Context, rawKey string) (*model.User, error)
}

type userService struct {
	users repo.UserRepo
	cfg   *config.Config
	log   *zap.Logger
}

func NewUserService(users repo.UserRepo, cfg *config.Config, log *zap.Logger) UserService {
	return &userService{users: users, cfg: cfg, log: log}
}

// AuthenticateAPIKey looks the key up by keyed hash; when slow verification
// is enabled the stored argon2 hash is checked as well.
func (s *userService) AuthenticateAPIKey(ctx context.Context, rawKey string) (*model.User, error) {
	secret, ok := tokens.ParseAPIKey(rawKey, s.cfg.Root.APIKeyPrefix)
	if !ok {
		return nil, ErrInvalidAPIKey
	}

	hmac := tokens.HMAC256Hex(s.cfg.Root.SecretPepper, secret)
	u, err := s.users.GetByAPIKeyHMAC(ctx, hmac)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidAPIKey
	}
	if err != nil {
		return nil, err
	}

	if s.cfg.Root.EnableArgon2Verification && u.APIKeyPHC != "" {
		ok, err := secrets.VerifySecret(secret, s.cfg.Root.SecretPepper, u.APIKeyPHC)
		if err != nil || !ok {
			return nil, ErrInvalidAPIKey
		}
	}
	return u, nil
}
