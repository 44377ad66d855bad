package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatforge-io/chatforge/internal/modules/serializer"
	"github.com/chatforge-io/chatforge/internal/modules/service"
	"github.com/chatforge-io/chatforge/internal/pkg/scopes"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// readCaps is the capability set accepted for read-composition queries.
var readCaps = []string{scopes.NLUDataRead, scopes.ResponsesRead, scopes.StoriesRead}

func writeServiceErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
	case errors.Is(err, service.ErrModelNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("nlu model not found"))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

// CreateProject godoc
//
//	@Summary	Create a project
//	@Tags		project
//	@Accept		json
//	@Produce	json
//	@Param		body	body	service.CreateProjectInput	true	"project"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=model.Project}
//	@Router		/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	if !requireCaps(c, []string{scopes.GlobalAdmin}, "") {
		return
	}

	var in service.CreateProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if in.Name == "" || in.Namespace == "" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("name and namespace are required", nil))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p, Msg: "ok"})
}

// ListProjects godoc
//
//	@Summary	List projects
//	@Tags		project
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]model.Project}
//	@Router		/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	if !requireCaps(c, []string{scopes.GlobalAdmin}, "") {
		return
	}
	projects, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: projects, Msg: "ok"})
}

// GetProject godoc
//
//	@Summary	Get a project
//	@Tags		project
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=model.Project}
//	@Router		/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, readCaps, id.String()) {
		return
	}
	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p, Msg: "ok"})
}

// UpdateProject godoc
//
//	@Summary	Update project settings
//	@Tags		project
//	@Accept		json
//	@Produce	json
//	@Param		body	body	object	true	"partial project fields"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/projects/{project_id} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, []string{scopes.ProjectSettingsWrite}, id.String()) {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if err := h.svc.Update(c.Request.Context(), id, fields); err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "ok"})
}

// DeleteProject godoc
//
//	@Summary	Delete a project and all its resources
//	@Tags		project
//	@Produce	json
//	@Param		fail_silently	query	boolean	false	"swallow teardown errors"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, []string{scopes.GlobalAdmin}, "") {
		return
	}

	opts := service.DeleteOptions{FailSilently: c.Query("fail_silently") == "true"}
	if err := h.svc.Delete(c.Request.Context(), id, opts); err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "ok"})
}

// StartTraining godoc
//
//	@Summary	Mark training started
//	@Tags		training
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/projects/{project_id}/training/start [post]
func (h *ProjectHandler) StartTraining(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, []string{scopes.NLUModelExecute}, id.String()) {
		return
	}
	if err := h.svc.MarkTrainingStarted(c.Request.Context(), id); err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "ok"})
}

type StopTrainingReq struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

// StopTraining godoc
//
//	@Summary	Mark training stopped
//	@Tags		training
//	@Accept		json
//	@Produce	json
//	@Param		body	body	StopTrainingReq	true	"final status as reported by the trainer"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/projects/{project_id}/training/stop [post]
func (h *ProjectHandler) StopTraining(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, []string{scopes.NLUModelExecute}, id.String()) {
		return
	}

	var req StopTrainingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if err := h.svc.MarkTrainingStopped(c.Request.Context(), id, req.Status, req.Message); err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Msg: "ok"})
}

// GetDefaultLanguage godoc
//
//	@Summary	Get the project default language
//	@Tags		project
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=string}
//	@Router		/projects/{project_id}/default_language [get]
func (h *ProjectHandler) GetDefaultLanguage(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, readCaps, id.String()) {
		return
	}
	lang, err := h.svc.GetDefaultLanguage(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: lang, Msg: "ok"})
}

// GetEnvironments godoc
//
//	@Summary	Get deployment environments, development always included
//	@Tags		project
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]string}
//	@Router		/projects/{project_id}/environments [get]
func (h *ProjectHandler) GetEnvironments(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	// no capability gate: every authenticated caller may read this
	envs, err := h.svc.GetDeploymentEnvironments(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: envs, Msg: "ok"})
}

// GetSlots godoc
//
//	@Summary	Get project slots
//	@Tags		project
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]model.Slot}
//	@Router		/projects/{project_id}/slots [get]
func (h *ProjectHandler) GetSlots(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	if !requireCaps(c, []string{scopes.StoriesRead}, id.String()) {
		return
	}
	slots, err := h.svc.GetSlots(c.Request.Context(), id)
	if err != nil {
		writeServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: slots, Msg: "ok"})
}
