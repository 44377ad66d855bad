package bootstrap

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

// EnsureRootUserExists creates or realigns the root admin user when the
// service starts. The root API key comes from config; without a key and
// pepper this is a no-op.
func EnsureRootUserExists(ctx context.Context, users repo.UserRepo, cfg *config.Config, log *zap.Logger) error {
	raw := cfg.Root.RootAPIKey
	pepper := cfg.Root.SecretPepper

	if raw == "" || pepper == "" {
		return nil
	}

	secret, ok := tokens.ParseAPIKey(raw, cfg.Root.APIKeyPrefix)
	if !ok {
		// accept a bare secret without the prefix
		secret = raw
	}

	lookup := tokens.HMAC256Hex(pepper, secret)
	phc, err := secrets.HashSecret(secret, pepper)
	if err != nil {
		return err
	}

	root, err := users.GetByEmail(ctx, cfg.Root.RootEmail)
	switch {
	case err == nil:
		if uErr := users.UpdateAPIKey(ctx, root.ID, lookup, phc); uErr != nil {
			return uErr
		}
		log.Sugar().Infow("root user exists", "user", root.ID)
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		newU := model.User{
			Email:       cfg.Root.RootEmail,
			APIKeyHMAC:  lookup,
			APIKeyPHC:   phc,
			GlobalRoles: []string{"global-admin"},
		}
		if cErr := users.Create(ctx, &newU); cErr != nil {
			return cErr
		}
		log.Sugar().Infow("root user created", "user", newU.ID)
		return nil

	default:
		return err
	}
}
