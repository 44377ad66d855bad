package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chatforge-io/chatforge/internal/middleware"
	"github.com/chatforge-io/chatforge/internal/modules/serializer"
	"github.com/chatforge-io/chatforge/internal/pkg/scopes"
)

// requireCaps runs the permission gate and writes the 403 itself; callers
// bail out when it returns false.
func requireCaps(c *gin.Context, caps []string, projectID string) bool {
	sub, opts := middleware.SubjectFromContext(c)
	d := scopes.Check(sub, caps, projectID, opts)
	if !d.Allowed {
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(d.Missing))
		return false
	}
	return true
}

func parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project id", err))
		return uuid.Nil, false
	}
	return id, true
}
