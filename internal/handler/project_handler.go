package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// GET /api/projects?page=&limit=&search=&technology=&status=&featured=&author=
func (h *ProjectHandler) List(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filter := repository.ProjectFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Technology: strings.TrimSpace(c.Query("technology")),
		Status:     models.ProjectStatus(strings.TrimSpace(c.Query("status"))),
		Featured:   c.Query("featured") == "true",
		AuthorID:   strings.TrimSpace(c.Query("author")),
	}

	result, err := h.projectService.List(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondPage(c, result)
}

// GET /api/projects/:slug
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"project": project})
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectInput
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "Project created successfully", gin.H{"project": project})
}

// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.ProjectPatch
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Project updated successfully", gin.H{"project": project})
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Project deleted successfully", nil)
}

// Reorder sets the manual sort order from a list of ids.
// POST /api/projects/reorder
func (h *ProjectHandler) Reorder(c *gin.Context) {
	var req service.ReorderInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projectService.Reorder(c.Request.Context(), middleware.CurrentIdentity(c), req); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Projects reordered successfully", nil)
}

// GET /api/projects/technologies
func (h *ProjectHandler) Technologies(c *gin.Context) {
	technologies, err := h.projectService.Technologies(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"technologies": technologies})
}

// GET /api/projects/analytics/overview
func (h *ProjectHandler) Overview(c *gin.Context) {
	overview, err := h.projectService.Overview(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", overview)
}
