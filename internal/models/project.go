package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectArchived   ProjectStatus = "ARCHIVED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectInProgress, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type Project struct {
	ID           string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string                      `gorm:"type:varchar(100);not null" json:"title"`
	Slug         string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description  string                      `gorm:"type:varchar(500);not null" json:"description"`
	Content      *string                     `gorm:"type:text" json:"content"`
	Thumbnail    *string                     `gorm:"type:text" json:"thumbnail"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	Features     datatypes.JSONSlice[string] `json:"features"`
	LiveURL      *string                     `gorm:"column:live_url;type:text" json:"liveUrl"`
	GithubURL    *string                     `gorm:"column:github_url;type:text" json:"githubUrl"`
	Status       ProjectStatus               `gorm:"type:varchar(20);not null;default:'COMPLETED';index" json:"status"`
	Featured     bool                        `gorm:"not null;default:false;index" json:"featured"`
	Order        int                         `gorm:"column:sort_order;not null;default:0" json:"order"`
	AuthorID     string                      `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author       *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt    time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = ProjectCompleted
	}
	p.normalize()
	return nil
}

func (p *Project) AfterFind(tx *gorm.DB) error {
	p.normalize()
	return nil
}

func (p *Project) normalize() {
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.Technologies == nil {
		p.Technologies = datatypes.JSONSlice[string]{}
	}
	if p.Features == nil {
		p.Features = datatypes.JSONSlice[string]{}
	}
}
