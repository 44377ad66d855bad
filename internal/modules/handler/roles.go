package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatforge-io/chatforge/internal/modules/serializer"
	"github.com/chatforge-io/chatforge/internal/modules/service"
	"github.com/chatforge-io/chatforge/internal/pkg/scopes"
)

type RolesHandler struct {
	svc service.RolesService
}

func NewRolesHandler(svc service.RolesService) *RolesHandler {
	return &RolesHandler{svc: svc}
}

// ListRoles godoc
//
//	@Summary	List the role catalog
//	@Tags		roles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]scopes.Role}
//	@Router		/roles [get]
func (h *RolesHandler) ListRoles(c *gin.Context) {
	if !requireCaps(c, []string{scopes.GlobalSettingsRead}, "") {
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: h.svc.List(c.Request.Context()), Msg: "ok"})
}
