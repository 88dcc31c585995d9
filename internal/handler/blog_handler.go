package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
)

type BlogHandler struct {
	blogService *service.BlogService
}

func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// List returns a page of blogs. Drafts are only listed for admins.
// GET /api/blogs?page=&limit=&search=&tag=&featured=&published=&author=
func (h *BlogHandler) List(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filter := repository.BlogFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Featured: c.Query("featured") == "true",
		AuthorID: strings.TrimSpace(c.Query("author")),
	}

	published := true
	switch c.DefaultQuery("published", "true") {
	case "true":
		filter.Published = &published
	case "false":
		published = false
		filter.Published = &published
	case "all":
	default:
		_ = c.Error(apperror.Validation("published: must be true, false or all"))
		return
	}
	if !middleware.CurrentIdentity(c).IsAdmin() {
		published = true
		filter.Published = &published
	}

	result, err := h.blogService.List(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondPage(c, result)
}

// Get returns a blog by slug and counts the view.
// GET /api/blogs/:slug
func (h *BlogHandler) Get(c *gin.Context) {
	blog, err := h.blogService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"blog": blog})
}

// POST /api/blogs
func (h *BlogHandler) Create(c *gin.Context) {
	var req service.CreateBlogInput
	if !bindJSON(c, &req) {
		return
	}

	blog, err := h.blogService.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "Blog created successfully", gin.H{"blog": blog})
}

// PATCH /api/blogs/:id
func (h *BlogHandler) Update(c *gin.Context) {
	var req service.BlogPatch
	if !bindJSON(c, &req) {
		return
	}

	blog, err := h.blogService.Update(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Blog updated successfully", gin.H{"blog": blog})
}

// DELETE /api/blogs/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.blogService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Blog deleted successfully", nil)
}

// Tags returns tag frequencies over published blogs.
// GET /api/blogs/tags
func (h *BlogHandler) Tags(c *gin.Context) {
	tags, err := h.blogService.Tags(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"tags": tags})
}

// GET /api/blogs/analytics/overview
func (h *BlogHandler) Overview(c *gin.Context) {
	overview, err := h.blogService.Overview(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", overview)
}
