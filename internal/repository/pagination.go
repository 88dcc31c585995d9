package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Pagination is a validated page request (page >= 1, 1 <= limit <= 100).
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// paginate applies offset/limit to a query.
func paginate(p Pagination) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a lowercase substring pattern for
// LOWER(col) LIKE ? ESCAPE '\'. Wildcards in term match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// authorSummary preloads only the public author columns.
func authorSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "avatar")
}

// FrequencyRow is one (value, count) pair of a tag or technology tally.
type FrequencyRow struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
