package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatforge-io/chatforge/internal/modules/serializer"
	"github.com/chatforge-io/chatforge/internal/modules/service"
)

type InsightsHandler struct {
	svc service.InsightsService
}

func NewInsightsHandler(svc service.InsightsService) *InsightsHandler {
	return &InsightsHandler{svc: svc}
}

// EntitiesAndIntents godoc
//
//	@Summary	Entities and intents known to the project for a language
//	@Tags		insights
//	@Produce	json
//	@Param		language	query	string	true	"training data language"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=service.EntitiesAndIntents}
//	@Router		/projects/{project_id}/entities_and_intents [get]
func (h *InsightsHandler) EntitiesAndIntents(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, readCaps, id.String()) {
		return
	}
	language := c.Query("language")
	if language == "" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("language is required", nil))
		return
	}

	out, err := h.svc.EntitiesAndIntents(c.Request.Context(), id, language)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out, Msg: "ok"})
}

// Actions godoc
//
//	@Summary	Actions referenced by stories, templates and the default domain
//	@Tags		insights
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]string}
//	@Router		/projects/{project_id}/actions [get]
func (h *InsightsHandler) Actions(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, readCaps, id.String()) {
		return
	}
	actions, err := h.svc.Actions(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: actions, Msg: "ok"})
}
