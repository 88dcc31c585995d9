package repository

import (
	"context"
	"errors"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type ProjectFilter struct {
	Search     string
	Technology string
	Status     models.ProjectStatus
	Featured   bool
	AuthorID   string
}

type ProjectOverview struct {
	Stats struct {
		TotalProjects      int64 `json:"totalProjects"`
		CompletedProjects  int64 `json:"completedProjects"`
		InProgressProjects int64 `json:"inProgressProjects"`
		ArchivedProjects   int64 `json:"archivedProjects"`
		FeaturedProjects   int64 `json:"featuredProjects"`
	} `json:"stats"`
	RecentProjects []models.Project `json:"recentProjects"`
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProjectRepository) first(ctx context.Context, query string, arg interface{}) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Author", authorSummary).
		Where(query, arg).
		First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Project{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes only the named columns of project, so counters and fields
// changed concurrently by other requests are left alone.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(project).
		Select(append(columns, "updated_at")).
		Omit(clause.Associations).
		Updates(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{}).Error
}

// Reorder sets sort_order to each id's position. Every id is its own UPDATE;
// ids that match no row are ignored and unlisted projects keep their order.
func (r *ProjectRepository) Reorder(ctx context.Context, ids []string) error {
	db := r.db.WithContext(ctx)
	for i, id := range ids {
		if err := db.Model(&models.Project{}).
			Where("id = ?", id).
			UpdateColumn("sort_order", i).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter, page Pagination) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(content, '')) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}
	if filter.Technology != "" {
		query = query.Where(datatypes.JSONArrayQuery("technologies").Contains(filter.Technology))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Featured {
		query = query.Where("featured = ?", true)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.
		Preload("Author", authorSummary).
		Order("featured DESC").
		Order("sort_order ASC").
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Technologies tallies technologies across all projects, most frequent first.
func (r *ProjectRepository) Technologies(ctx context.Context) ([]FrequencyRow, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Select("technologies").Find(&projects).Error; err != nil {
		return nil, err
	}

	lists := make([][]string, len(projects))
	for i, p := range projects {
		lists[i] = p.Technologies
	}
	return tally(lists), nil
}

func (r *ProjectRepository) Overview(ctx context.Context) (*ProjectOverview, error) {
	db := r.db.WithContext(ctx)
	out := &ProjectOverview{}

	count := func(out *int64, query string, args ...interface{}) error {
		q := db.Model(&models.Project{})
		if query != "" {
			q = q.Where(query, args...)
		}
		return q.Count(out).Error
	}

	if err := count(&out.Stats.TotalProjects, ""); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.CompletedProjects, "status = ?", models.ProjectCompleted); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.InProgressProjects, "status = ?", models.ProjectInProgress); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.ArchivedProjects, "status = ?", models.ProjectArchived); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.FeaturedProjects, "featured = ?", true); err != nil {
		return nil, err
	}

	if err := db.Select("id", "title", "slug", "status", "featured", "created_at").
		Order("created_at DESC").Limit(10).Find(&out.RecentProjects).Error; err != nil {
		return nil, err
	}
	return out, nil
}
