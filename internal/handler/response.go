package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
)

// PaginationMeta is the list envelope's pagination block.
type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondPage[T any](c *gin.Context, page *service.Page[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"pagination": PaginationMeta{
			CurrentPage: page.Pagination.Page,
			TotalPages:  page.TotalPages(),
			TotalItems:  page.Total,
			HasNext:     page.HasNext(),
			HasPrev:     page.HasPrev(),
		},
	})
}

// bindJSON decodes the request body and records the failure for ErrorHandler.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// pageFromQuery reads ?page=&limit= with defaults 1 and 10.
func pageFromQuery(c *gin.Context) (repository.Pagination, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return repository.Pagination{}, err
	}
	limit, err := queryInt(c, "limit", service.DefaultPageLimit)
	if err != nil {
		return repository.Pagination{}, err
	}
	return service.NewPagination(page, limit)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation(key + ": must be an integer")
	}
	return n, nil
}
