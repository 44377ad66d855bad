package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chatforge-io/chatforge/internal/config"
	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/modules/service"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) AuthenticateAPIKey(ctx context.Context, rawKey string) (*model.User, error) {
	args := m.Called(ctx, rawKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func setupAuthRouter(cfg *config.Config, users service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyAuth(cfg, users))
	r.GET("/whoami", func(c *gin.Context) {
		sub, opts := SubjectFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"ci":           opts.BypassCI,
			"global_roles": sub.GlobalRoles,
		})
	})
	return r
}

func testConfig() *config.Config {
	return &config.Config{
		Root: config.RootConfig{
			APIKeyPrefix: "cf_",
			CIToken:      "ci-secret",
		},
	}
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	router := setupAuthRouter(testConfig(), &MockUserService{})

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	users := &MockUserService{}
	users.On("AuthenticateAPIKey", mock.Anything, "cf_wrong").
		Return(nil, service.ErrInvalidAPIKey)
	router := setupAuthRouter(testConfig(), users)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer cf_wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	users := &MockUserService{}
	users.On("AuthenticateAPIKey", mock.Anything, "cf_good").
		Return(&model.User{ID: uuid.New(), GlobalRoles: []string{"global-admin"}}, nil)
	router := setupAuthRouter(testConfig(), users)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer cf_good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "global-admin")
}

func TestAPIKeyAuth_CITokenBypassesKeyAuth(t *testing.T) {
	users := &MockUserService{}
	router := setupAuthRouter(testConfig(), users)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-CI-Token", "ci-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ci":true`)
	users.AssertNotCalled(t, "AuthenticateAPIKey", mock.Anything, mock.Anything)
}

func TestAPIKeyAuth_WrongCITokenStillNeedsKey(t *testing.T) {
	users := &MockUserService{}
	router := setupAuthRouter(testConfig(), users)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-CI-Token", "not-the-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
