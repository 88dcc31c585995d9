package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// BlogFilter narrows the public blog listing. A nil Published means "any".
type BlogFilter struct {
	Search    string
	Tag       string
	Featured  bool
	Published *bool
	AuthorID  string
}

type BlogOverview struct {
	Stats struct {
		TotalBlogs     int64 `json:"totalBlogs"`
		PublishedBlogs int64 `json:"publishedBlogs"`
		DraftBlogs     int64 `json:"draftBlogs"`
		FeaturedBlogs  int64 `json:"featuredBlogs"`
		TotalViews     int64 `json:"totalViews"`
	} `json:"stats"`
	RecentBlogs []models.Blog `json:"recentBlogs"`
	TopBlogs    []models.Blog `json:"topBlogs"`
}

func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(blog).Error
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *BlogRepository) first(ctx context.Context, query string, arg interface{}) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).
		Preload("Author", authorSummary).
		Where(query, arg).
		First(&blog).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &blog, nil
}

// SlugExists reports whether another blog (id != excludeID) already uses slug.
func (r *BlogRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Blog{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes only the named columns of blog, so counters and fields
// changed concurrently by other requests are left alone.
func (r *BlogRepository) Update(ctx context.Context, blog *models.Blog, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(blog).
		Select(append(columns, "updated_at")).
		Omit(clause.Associations).
		Updates(blog).Error
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{}).Error
}

// IncrementViews bumps the view counter in a single UPDATE so concurrent
// reads never lose an increment.
func (r *BlogRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *BlogRepository) List(ctx context.Context, filter BlogFilter, page Pagination) ([]models.Blog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Blog{})

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(excerpt, '')) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}
	if filter.Tag != "" {
		query = query.Where(datatypes.JSONArrayQuery("tags").Contains(filter.Tag))
	}
	if filter.Featured {
		query = query.Where("featured = ?", true)
	}
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []models.Blog
	err := query.
		Preload("Author", authorSummary).
		Order("featured DESC").
		Order("published_at DESC").
		Order("created_at DESC").
		Scopes(paginate(page)).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

// PublishedTags tallies tags across published blogs, most frequent first.
func (r *BlogRepository) PublishedTags(ctx context.Context) ([]FrequencyRow, error) {
	var blogs []models.Blog
	if err := r.db.WithContext(ctx).
		Select("tags").
		Where("published = ?", true).
		Find(&blogs).Error; err != nil {
		return nil, err
	}

	lists := make([][]string, len(blogs))
	for i, b := range blogs {
		lists[i] = b.Tags
	}
	return tally(lists), nil
}

func (r *BlogRepository) Overview(ctx context.Context) (*BlogOverview, error) {
	db := r.db.WithContext(ctx)
	out := &BlogOverview{}

	if err := db.Model(&models.Blog{}).Count(&out.Stats.TotalBlogs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Blog{}).Where("published = ?", true).Count(&out.Stats.PublishedBlogs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Blog{}).Where("published = ?", false).Count(&out.Stats.DraftBlogs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Blog{}).Where("featured = ?", true).Count(&out.Stats.FeaturedBlogs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Blog{}).Select("COALESCE(SUM(views), 0)").Scan(&out.Stats.TotalViews).Error; err != nil {
		return nil, err
	}

	if err := db.Select("id", "title", "slug", "published", "views", "created_at").
		Order("created_at DESC").Limit(10).Find(&out.RecentBlogs).Error; err != nil {
		return nil, err
	}
	if err := db.Select("id", "title", "slug", "views").
		Where("published = ?", true).
		Order("views DESC").Limit(10).Find(&out.TopBlogs).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// tally counts occurrences of each value across lists. Ties are broken by
// name so the output is stable.
func tally(lists [][]string) []FrequencyRow {
	counts := make(map[string]int)
	for _, list := range lists {
		for _, v := range list {
			counts[v]++
		}
	}

	rows := make([]FrequencyRow, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, FrequencyRow{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
