package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/broker"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/optional"
	"github.com/rrishiddh/portfolio-project-backend/internal/policy"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/utils"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resourceProject = "project"

var (
	projectTitleRules = []validation.Rule{
		validation.Required.Error("Title is required"),
		validation.Length(1, 100).Error("Title must be less than 100 characters"),
	}
	projectDescriptionRules = []validation.Rule{
		validation.Required.Error("Description is required"),
		validation.Length(1, 500).Error("Description must be less than 500 characters"),
	}
	projectThumbnailRules = []validation.Rule{is.RequestURL.Error("Invalid thumbnail URL")}
	projectImagesRules    = []validation.Rule{eachString(is.RequestURL.Error("Invalid image URL"))}
	projectLiveURLRules   = []validation.Rule{is.RequestURL.Error("Invalid live URL")}
	projectGithubURLRules = []validation.Rule{is.RequestURL.Error("Invalid GitHub URL")}
	projectStatusRules    = []validation.Rule{validation.By(validStatus)}
)

func validStatus(value interface{}) error {
	var status models.ProjectStatus
	switch v := value.(type) {
	case models.ProjectStatus:
		status = v
	case *models.ProjectStatus:
		if v == nil {
			return nil
		}
		status = *v
	}
	if status == "" || status.Valid() {
		return nil
	}
	return errors.New("Status must be one of IN_PROGRESS, COMPLETED, ARCHIVED")
}

type ProjectService struct {
	repo   *repository.ProjectRepository
	events broker.Publisher
	now    func() time.Time
}

func NewProjectService(repo *repository.ProjectRepository, events broker.Publisher) *ProjectService {
	if events == nil {
		events = broker.NopPublisher{}
	}
	return &ProjectService{repo: repo, events: events, now: time.Now}
}

type CreateProjectInput struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Content      *string              `json:"content"`
	Thumbnail    *string              `json:"thumbnail"`
	Images       []string             `json:"images"`
	Technologies []string             `json:"technologies"`
	Features     []string             `json:"features"`
	LiveURL      *string              `json:"liveUrl"`
	GithubURL    *string              `json:"githubUrl"`
	Status       models.ProjectStatus `json:"status"`
	Featured     bool                 `json:"featured"`
	Order        int                  `json:"order"`
}

func (in CreateProjectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, projectTitleRules...),
		validation.Field(&in.Description, projectDescriptionRules...),
		validation.Field(&in.Thumbnail, projectThumbnailRules...),
		validation.Field(&in.Images, projectImagesRules...),
		validation.Field(&in.LiveURL, projectLiveURLRules...),
		validation.Field(&in.GithubURL, projectGithubURLRules...),
		validation.Field(&in.Status, projectStatusRules...),
	)
}

type ProjectPatch struct {
	Title        optional.Value[string]               `json:"title"`
	Description  optional.Value[string]               `json:"description"`
	Content      optional.Value[string]               `json:"content"`
	Thumbnail    optional.Value[string]               `json:"thumbnail"`
	Images       optional.Value[[]string]             `json:"images"`
	Technologies optional.Value[[]string]             `json:"technologies"`
	Features     optional.Value[[]string]             `json:"features"`
	LiveURL      optional.Value[string]               `json:"liveUrl"`
	GithubURL    optional.Value[string]               `json:"githubUrl"`
	Status       optional.Value[models.ProjectStatus] `json:"status"`
	Featured     optional.Value[bool]                 `json:"featured"`
	Order        optional.Value[int]                  `json:"order"`
}

func (p ProjectPatch) Validate() error {
	return validation.Errors{
		"title":        validateNotNull(p.Title, projectTitleRules...),
		"description":  validateNotNull(p.Description, projectDescriptionRules...),
		"content":      validateSet(p.Content),
		"thumbnail":    validateSet(p.Thumbnail, projectThumbnailRules...),
		"images":       validateNotNull(p.Images, projectImagesRules...),
		"technologies": validateNotNull(p.Technologies),
		"features":     validateNotNull(p.Features),
		"liveUrl":      validateSet(p.LiveURL, projectLiveURLRules...),
		"githubUrl":    validateSet(p.GithubURL, projectGithubURLRules...),
		"status":       validateNotNull(p.Status, append([]validation.Rule{validation.Required.Error("Status cannot be empty")}, projectStatusRules...)...),
		"featured":     validateNotNull(p.Featured),
		"order":        validateNotNull(p.Order),
	}.Filter()
}

type ReorderInput struct {
	ProjectIDs []string `json:"projectIds"`
}

func (in ReorderInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProjectIDs,
			validation.Required.Error("Project IDs array is required"),
			eachString(validation.Required.Error("Project ID cannot be empty")),
		),
	)
}

func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter, page repository.Pagination) (*Page[models.Project], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("status: Status must be one of IN_PROGRESS, COMPLETED, ARCHIVED")
	}

	projects, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		logger.Log.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}
	return &Page[models.Project]{Items: projects, Total: total, Pagination: page}, nil
}

func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("Project not found")
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, identity *policy.Identity, in CreateProjectInput) (*models.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}

	slug := utils.Slugify(in.Title)
	if slug == "" {
		return nil, apperror.Validation("title: Title must contain at least one letter or number")
	}

	exists, err := s.repo.SlugExists(ctx, slug, "")
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Log.Warn("Project slug already taken", zap.String("slug", slug))
		return nil, apperror.Conflict("A project with this title already exists")
	}

	status := in.Status
	if status == "" {
		status = models.ProjectCompleted
	}

	project := &models.Project{
		Title:        in.Title,
		Slug:         slug,
		Description:  in.Description,
		Content:      in.Content,
		Thumbnail:    in.Thumbnail,
		Images:       normalizeList(in.Images),
		Technologies: normalizeList(in.Technologies),
		Features:     normalizeList(in.Features),
		LiveURL:      in.LiveURL,
		GithubURL:    in.GithubURL,
		Status:       status,
		Featured:     in.Featured,
		Order:        in.Order,
		AuthorID:     identity.UserID,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("A project with this title already exists")
		}
		logger.Log.Error("Failed to create project", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Project created",
		zap.String("project_id", project.ID),
		zap.String("slug", project.Slug),
		zap.String("author_id", identity.UserID),
	)
	s.publish(ctx, broker.ActionCreated, project, identity)

	return s.reload(ctx, project.ID)
}

func (s *ProjectService) Update(ctx context.Context, identity *policy.Identity, id string, patch ProjectPatch) (*models.Project, error) {
	if patch.Title.HasValue() {
		patch.Title.V = strings.TrimSpace(patch.Title.V)
	}
	if err := invalid(patch.Validate()); err != nil {
		return nil, err
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("Project not found")
	}
	if err := policy.AuthorizeOwnership(identity, project.AuthorID); err != nil {
		return nil, apperror.Forbidden("Not authorized to update this project")
	}

	var columns []string

	if patch.Title.HasValue() && patch.Title.V != project.Title {
		slug := utils.Slugify(patch.Title.V)
		if slug == "" {
			return nil, apperror.Validation("title: Title must contain at least one letter or number")
		}
		taken, err := s.repo.SlugExists(ctx, slug, project.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			slug = utils.SuffixSlug(slug, s.now())
		}
		project.Title = patch.Title.V
		project.Slug = slug
		columns = append(columns, "title", "slug")
	}
	if patch.Description.HasValue() {
		project.Description = patch.Description.V
		columns = append(columns, "description")
	}
	if patch.Content.Set {
		project.Content = patch.Content.Ptr()
		columns = append(columns, "content")
	}
	if patch.Thumbnail.Set {
		project.Thumbnail = patch.Thumbnail.Ptr()
		columns = append(columns, "thumbnail")
	}
	if patch.Images.HasValue() {
		project.Images = normalizeList(patch.Images.V)
		columns = append(columns, "images")
	}
	if patch.Technologies.HasValue() {
		project.Technologies = normalizeList(patch.Technologies.V)
		columns = append(columns, "technologies")
	}
	if patch.Features.HasValue() {
		project.Features = normalizeList(patch.Features.V)
		columns = append(columns, "features")
	}
	if patch.LiveURL.Set {
		project.LiveURL = patch.LiveURL.Ptr()
		columns = append(columns, "live_url")
	}
	if patch.GithubURL.Set {
		project.GithubURL = patch.GithubURL.Ptr()
		columns = append(columns, "github_url")
	}
	if patch.Status.HasValue() {
		project.Status = patch.Status.V
		columns = append(columns, "status")
	}
	if patch.Featured.HasValue() {
		project.Featured = patch.Featured.V
		columns = append(columns, "featured")
	}
	if patch.Order.HasValue() {
		project.Order = patch.Order.V
		columns = append(columns, "sort_order")
	}

	if err := s.repo.Update(ctx, project, columns); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("A project with this title already exists")
		}
		logger.Log.Error("Failed to update project", zap.String("project_id", id), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Project updated",
		zap.String("project_id", project.ID),
		zap.String("actor_id", identity.UserID),
	)
	s.publish(ctx, broker.ActionUpdated, project, identity)

	return s.reload(ctx, project.ID)
}

func (s *ProjectService) Delete(ctx context.Context, identity *policy.Identity, id string) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NotFound("Project not found")
	}
	if err := policy.AuthorizeOwnership(identity, project.AuthorID); err != nil {
		return apperror.Forbidden("Not authorized to delete this project")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Log.Error("Failed to delete project", zap.String("project_id", id), zap.Error(err))
		return err
	}

	logger.Log.Info("Project deleted",
		zap.String("project_id", id),
		zap.String("actor_id", identity.UserID),
	)
	s.publish(ctx, broker.ActionDeleted, project, identity)
	return nil
}

// Reorder gives each listed project its position as order. The updates are
// not atomic; a failure part way leaves the earlier ids already moved.
func (s *ProjectService) Reorder(ctx context.Context, identity *policy.Identity, in ReorderInput) error {
	if err := policy.AuthorizeRole(identity, models.RoleAdmin); err != nil {
		return err
	}
	if err := invalid(in.Validate()); err != nil {
		return err
	}

	if err := s.repo.Reorder(ctx, in.ProjectIDs); err != nil {
		logger.Log.Error("Failed to reorder projects", zap.Error(err))
		return err
	}

	logger.Log.Info("Projects reordered",
		zap.Int("count", len(in.ProjectIDs)),
		zap.String("actor_id", identity.UserID),
	)
	return nil
}

func (s *ProjectService) Technologies(ctx context.Context) ([]repository.FrequencyRow, error) {
	return s.repo.Technologies(ctx)
}

func (s *ProjectService) Overview(ctx context.Context) (*repository.ProjectOverview, error) {
	return s.repo.Overview(ctx)
}

func (s *ProjectService) reload(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("Project not found")
	}
	return project, nil
}

func (s *ProjectService) publish(ctx context.Context, action broker.Action, project *models.Project, identity *policy.Identity) {
	event := broker.Event{
		Resource:   resourceProject,
		Action:     action,
		ID:         project.ID,
		Slug:       project.Slug,
		ActorID:    identity.UserID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish content event",
			zap.String("resource", resourceProject),
			zap.String("action", string(action)),
			zap.String("id", project.ID),
			zap.Error(err),
		)
	}
}
