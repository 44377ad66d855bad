package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chatforge-io/chatforge/internal/modules/serializer"
	"github.com/chatforge-io/chatforge/internal/modules/service"
	"github.com/chatforge-io/chatforge/internal/pkg/scopes"
)

type SmartTipsHandler struct {
	svc service.SmartTipsService
}

func NewSmartTipsHandler(svc service.SmartTipsService) *SmartTipsHandler {
	return &SmartTipsHandler{svc: svc}
}

// ForModel godoc
//
//	@Summary	Classify a model's logged utterances into review tips
//	@Tags		insights
//	@Produce	json
//	@Param		utterances	query	string	false	"comma separated utterance ids, all when empty"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=map[string]smarttips.Tip}
//	@Router		/projects/{project_id}/models/{model_id}/smart_tips [get]
func (h *SmartTipsHandler) ForModel(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, []string{scopes.NLUDataRead}, projectID.String()) {
		return
	}
	modelID, err := uuid.Parse(c.Param("model_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid model id", err))
		return
	}

	var utteranceIDs []uuid.UUID
	if raw := c.Query("utterances"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid utterance id", err))
				return
			}
			utteranceIDs = append(utteranceIDs, id)
		}
	}

	tips, err := h.svc.ForModel(c.Request.Context(), projectID, modelID, utteranceIDs)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: tips, Msg: "ok"})
}
