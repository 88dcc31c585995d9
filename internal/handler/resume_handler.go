package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
)

// Resume routes are owner-scoped; the caller's id comes from the token.
type ResumeHandler struct {
	resumeService *service.ResumeService
}

func NewResumeHandler(resumeService *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// GET /api/resumes
func (h *ResumeHandler) List(c *gin.Context) {
	resumes, err := h.resumeService.List(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"resumes": resumes})
}

// GET /api/resumes/:id
func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumeService.Get(c.Request.Context(), middleware.CurrentIdentity(c).UserID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"resume": resume})
}

// POST /api/resumes
func (h *ResumeHandler) Create(c *gin.Context) {
	var req service.CreateResumeInput
	if !bindJSON(c, &req) {
		return
	}

	resume, err := h.resumeService.Create(c.Request.Context(), middleware.CurrentIdentity(c).UserID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "Resume created successfully", gin.H{"resume": resume})
}

// PATCH /api/resumes/:id
func (h *ResumeHandler) Update(c *gin.Context) {
	var req service.ResumePatch
	if !bindJSON(c, &req) {
		return
	}

	resume, err := h.resumeService.Update(c.Request.Context(), middleware.CurrentIdentity(c).UserID, c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Resume updated successfully", gin.H{"resume": resume})
}

// DELETE /api/resumes/:id
func (h *ResumeHandler) Delete(c *gin.Context) {
	if err := h.resumeService.Delete(c.Request.Context(), middleware.CurrentIdentity(c).UserID, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Resume deleted successfully", nil)
}

// PDF streams the rendered resume as an attachment.
// GET /api/resumes/:id/pdf
func (h *ResumeHandler) PDF(c *gin.Context) {
	doc, err := h.resumeService.GeneratePDF(c.Request.Context(), middleware.CurrentIdentity(c).UserID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

// PDFLink archives the rendered resume and returns a presigned download URL.
// GET /api/resumes/:id/pdf/link
func (h *ResumeHandler) PDFLink(c *gin.Context) {
	link, err := h.resumeService.ArchivePDF(c.Request.Context(), middleware.CurrentIdentity(c).UserID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", link)
}

// GET /api/resumes/analytics/overview
func (h *ResumeHandler) Overview(c *gin.Context) {
	overview, err := h.resumeService.Overview(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", overview)
}
