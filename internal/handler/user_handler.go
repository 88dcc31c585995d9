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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role"`
}

// GET /api/users?page=&limit=&search=&role=
func (h *UserHandler) List(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filter := repository.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Role:   models.Role(strings.TrimSpace(c.Query("role"))),
	}

	result, err := h.userService.List(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondPage(c, result)
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"user": user})
}

// GET /api/users/:id/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userService.Stats(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", stats)
}

// PATCH /api/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "User role updated successfully", gin.H{"user": user})
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "User deleted successfully", nil)
}

// GET /api/users/analytics/overview
func (h *UserHandler) Overview(c *gin.Context) {
	overview, err := h.userService.Overview(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", overview)
}
