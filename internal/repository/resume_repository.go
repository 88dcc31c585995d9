package repository

import (
	"context"
	"errors"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

type ResumeOverview struct {
	Stats struct {
		TotalResumes int64 `json:"totalResumes"`
	} `json:"stats"`
	RecentResumes []models.Resume `json:"recentResumes"`
}

func (r *ResumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(resume).Error
}

// GetForOwner loads a resume only if userID owns it; anything else is (nil, nil).
func (r *ResumeRepository) GetForOwner(ctx context.Context, id, userID string) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&resume).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &resume, nil
}

func (r *ResumeRepository) ListByUser(ctx context.Context, userID string) ([]models.ResumeSummary, error) {
	summaries := []models.ResumeSummary{}
	err := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Select("id", "title", "template", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&summaries).Error
	return summaries, err
}

// Update writes only the named columns of resume, so counters and fields
// changed concurrently by other requests are left alone.
func (r *ResumeRepository) Update(ctx context.Context, resume *models.Resume, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(resume).
		Select(append(columns, "updated_at")).
		Omit(clause.Associations).
		Updates(resume).Error
}

func (r *ResumeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Resume{}).Error
}

func (r *ResumeRepository) Overview(ctx context.Context) (*ResumeOverview, error) {
	db := r.db.WithContext(ctx)
	out := &ResumeOverview{}

	if err := db.Model(&models.Resume{}).Count(&out.Stats.TotalResumes).Error; err != nil {
		return nil, err
	}
	err := db.Select("id", "title", "template", "user_id", "created_at").
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }).
		Order("created_at DESC").
		Limit(10).
		Find(&out.RecentResumes).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
