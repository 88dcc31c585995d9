package repository

import (
	"context"
	"errors"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string
	Role   models.Role
}

// UserStats are the per-user content counters.
type UserStats struct {
	Blogs struct {
		Total      int64 `json:"total"`
		TotalViews int64 `json:"totalViews"`
	} `json:"blogs"`
	Projects struct {
		Total      int64 `json:"total"`
		Completed  int64 `json:"completed"`
		InProgress int64 `json:"inProgress"`
		Archived   int64 `json:"archived"`
	} `json:"projects"`
	Resumes struct {
		Total int64 `json:"total"`
	} `json:"resumes"`
}

// UserOverview is the admin analytics payload for users.
type UserOverview struct {
	Stats struct {
		TotalUsers      int64 `json:"totalUsers"`
		AdminUsers      int64 `json:"adminUsers"`
		RegularUsers    int64 `json:"regularUsers"`
		VerifiedUsers   int64 `json:"verifiedUsers"`
		UnverifiedUsers int64 `json:"unverifiedUsers"`
	} `json:"stats"`
	RecentUsers []models.User `json:"recentUsers"`
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// SaveUser writes every column of user, associations excluded.
func (r *UserRepository) SaveUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// DeleteUser removes the user and everything they own in one transaction.
// Returns false when no user had that id.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&models.Blog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Resume{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ListUsers returns one page of users, newest first, with their content counts.
func (r *UserRepository) ListUsers(ctx context.Context, filter UserFilter, page Pagination) ([]models.UserWithCounts, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Scopes(paginate(page)).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	counts, err := r.contentCounts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]models.UserWithCounts, len(users))
	for i, u := range users {
		rows[i] = models.UserWithCounts{User: u, Count: counts[u.ID]}
	}
	return rows, total, nil
}

type ownerCount struct {
	OwnerID string
	Total   int64
}

func (r *UserRepository) contentCounts(ctx context.Context, ids []string) (map[string]models.UserCounts, error) {
	counts := make(map[string]models.UserCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var blogs, projects, resumes []ownerCount
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Blog{}).Select("author_id AS owner_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).Group("author_id").Scan(&blogs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Project{}).Select("author_id AS owner_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).Group("author_id").Scan(&projects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Resume{}).Select("user_id AS owner_id, COUNT(*) AS total").
		Where("user_id IN ?", ids).Group("user_id").Scan(&resumes).Error; err != nil {
		return nil, err
	}

	for _, row := range blogs {
		c := counts[row.OwnerID]
		c.Blogs = row.Total
		counts[row.OwnerID] = c
	}
	for _, row := range projects {
		c := counts[row.OwnerID]
		c.Projects = row.Total
		counts[row.OwnerID] = c
	}
	for _, row := range resumes {
		c := counts[row.OwnerID]
		c.Resumes = row.Total
		counts[row.OwnerID] = c
	}
	return counts, nil
}

// Stats computes the content counters for one user.
func (r *UserRepository) Stats(ctx context.Context, userID string) (*UserStats, error) {
	db := r.db.WithContext(ctx)
	stats := &UserStats{}

	if err := db.Model(&models.Blog{}).Where("author_id = ?", userID).Count(&stats.Blogs.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Blog{}).Where("author_id = ?", userID).
		Select("COALESCE(SUM(views), 0)").Scan(&stats.Blogs.TotalViews).Error; err != nil {
		return nil, err
	}

	projectCount := func(status models.ProjectStatus, out *int64) error {
		q := db.Model(&models.Project{}).Where("author_id = ?", userID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q.Count(out).Error
	}
	if err := projectCount("", &stats.Projects.Total); err != nil {
		return nil, err
	}
	if err := projectCount(models.ProjectCompleted, &stats.Projects.Completed); err != nil {
		return nil, err
	}
	if err := projectCount(models.ProjectInProgress, &stats.Projects.InProgress); err != nil {
		return nil, err
	}
	if err := projectCount(models.ProjectArchived, &stats.Projects.Archived); err != nil {
		return nil, err
	}

	if err := db.Model(&models.Resume{}).Where("user_id = ?", userID).Count(&stats.Resumes.Total).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Overview computes the admin user analytics.
func (r *UserRepository) Overview(ctx context.Context) (*UserOverview, error) {
	db := r.db.WithContext(ctx)
	out := &UserOverview{}

	count := func(out *int64, query interface{}, args ...interface{}) error {
		q := db.Model(&models.User{})
		if query != nil {
			q = q.Where(query, args...)
		}
		return q.Count(out).Error
	}

	if err := count(&out.Stats.TotalUsers, nil); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.AdminUsers, "role = ?", models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.RegularUsers, "role = ?", models.RoleUser); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.VerifiedUsers, "email_verified = ?", true); err != nil {
		return nil, err
	}
	if err := count(&out.Stats.UnverifiedUsers, "email_verified = ?", false); err != nil {
		return nil, err
	}

	if err := db.Order("created_at DESC").Limit(10).Find(&out.RecentUsers).Error; err != nil {
		return nil, err
	}
	return out, nil
}
