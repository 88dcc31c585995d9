package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Blog struct {
	ID             string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title          string                      `gorm:"type:varchar(200);not null" json:"title"`
	Slug           string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Content        string                      `gorm:"type:text;not null" json:"content"`
	Excerpt        *string                     `gorm:"type:text" json:"excerpt"`
	CoverImage     *string                     `gorm:"type:text" json:"coverImage"`
	Published      bool                        `gorm:"not null;default:false;index" json:"published"`
	Featured       bool                        `gorm:"not null;default:false;index" json:"featured"`
	Views          int                         `gorm:"not null;default:0" json:"views"`
	ReadTime       *int                        `json:"readTime"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	SEOTitle       *string                     `gorm:"column:seo_title;type:text" json:"seoTitle"`
	SEODescription *string                     `gorm:"column:seo_description;type:text" json:"seoDescription"`
	PublishedAt    *time.Time                  `json:"publishedAt"`
	AuthorID       string                      `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author         *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt      time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Tags == nil {
		b.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

// AfterFind keeps list fields as [] in responses for rows stored with a JSON null.
func (b *Blog) AfterFind(tx *gorm.DB) error {
	if b.Tags == nil {
		b.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}
