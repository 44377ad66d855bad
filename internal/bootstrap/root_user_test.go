package bootstrap

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/config"
	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/pkg/utils/tokens"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByAPIKeyHMAC(ctx context.Context, hmac string) (*model.User, error) {
	args := m.Called(ctx, hmac)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) UpdateAPIKey(ctx context.Context, id uuid.UUID, hmac, phc string) error {
	return m.Called(ctx, id, hmac, phc).Error(0)
}

func rootConfig() *config.Config {
	return &config.Config{
		Root: config.RootConfig{
			RootEmail:    "root@chatforge.local",
			RootAPIKey:   "cf_root-secret",
			APIKeyPrefix: "cf_",
			SecretPepper: "pepper",
		},
	}
}

func TestEnsureRootUserExists_NoopWithoutKey(t *testing.T) {
	users := &MockUserRepo{}
	cfg := rootConfig()
	cfg.Root.RootAPIKey = ""

	err := EnsureRootUserExists(context.Background(), users, cfg, zap.NewNop())
	require.NoError(t, err)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestEnsureRootUserExists_CreatesWhenMissing(t *testing.T) {
	users := &MockUserRepo{}
	cfg := rootConfig()
	wantHMAC := tokens.HMAC256Hex("pepper", "root-secret")

	users.On("GetByEmail", mock.Anything, cfg.Root.RootEmail).
		Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == cfg.Root.RootEmail &&
			u.APIKeyHMAC == wantHMAC &&
			u.APIKeyPHC != "" &&
			assert.ObjectsAreEqual([]string{"global-admin"}, u.GlobalRoles)
	})).Return(nil)

	err := EnsureRootUserExists(context.Background(), users, cfg, zap.NewNop())
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestEnsureRootUserExists_RealignsExistingKey(t *testing.T) {
	users := &MockUserRepo{}
	cfg := rootConfig()
	rootID := uuid.New()
	wantHMAC := tokens.HMAC256Hex("pepper", "root-secret")

	users.On("GetByEmail", mock.Anything, cfg.Root.RootEmail).
		Return(&model.User{ID: rootID, Email: cfg.Root.RootEmail}, nil)
	users.On("UpdateAPIKey", mock.Anything, rootID, wantHMAC, mock.AnythingOfType("string")).
		Return(nil)

	err := EnsureRootUserExists(context.Background(), users, cfg, zap.NewNop())
	require.NoError(t, err)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}
