package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatforge-io/chatforge/internal/config"
	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/modules/serializer"
	"github.com/chatforge-io/chatforge/internal/modules/service"
	"github.com/chatforge-io/chatforge/internal/pkg/scopes"
)

const (
	ctxUserKey     = "user"
	ctxCIBypassKey = "ci_bypass"
	ciTokenHeader  = "X-CI-Token"
)

// APIKeyAuth authenticates requests with a bearer API key and stores the
// resolved user in the gin context. A valid X-CI-Token is recorded as a gate
// bypass for the request.
func APIKeyAuth(cfg *config.Config, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "api_key_auth",
			trace.WithAttributes(attribute.String("middleware", "api_key_auth")))

		if ci := c.GetHeader(ciTokenHeader); ci != "" && cfg.Root.CIToken != "" && ci == cfg.Root.CIToken {
			c.Set(ctxCIBypassKey, true)
			authSpan.SetAttributes(attribute.Bool("ci_bypass", true))
			authSpan.End()
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		u, err := users.AuthenticateAPIKey(ctx, raw)
		if err != nil {
			if errors.Is(err, service.ErrInvalidAPIKey) {
				authSpan.SetAttributes(attribute.Bool("authenticated", false))
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			authSpan.RecordError(err)
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("user_id", u.ID.String()))
		}

		authSpan.SetAttributes(
			attribute.String("user_id", u.ID.String()),
			attribute.Bool("authenticated", true),
		)
		authSpan.End()

		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// UserFromContext returns the authenticated user, nil for CI requests.
func UserFromContext(c *gin.Context) *model.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// SubjectFromContext builds the permission subject for the request.
func SubjectFromContext(c *gin.Context) (scopes.Subject, scopes.Options) {
	opts := scopes.Options{BypassCI: c.GetBool(ctxCIBypassKey)}
	u := UserFromContext(c)
	if u == nil {
		return scopes.Subject{}, opts
	}
	return scopes.Subject{GlobalRoles: u.GlobalRoles, ProjectRoles: u.Roles}, opts
}
