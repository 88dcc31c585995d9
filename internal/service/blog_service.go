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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const resourceBlog = "blog"

var (
	blogTitleRules = []validation.Rule{
		validation.Required.Error("Title is required"),
		validation.Length(1, 200).Error("Title must be less than 200 characters"),
	}
	blogContentRules = []validation.Rule{
		validation.Required.Error("Content is required"),
	}
	blogExcerptRules        = []validation.Rule{validation.Length(0, 500).Error("Excerpt must be less than 500 characters")}
	blogCoverRules          = []validation.Rule{is.RequestURL.Error("Invalid cover image URL")}
	blogSEOTitleRules       = []validation.Rule{validation.Length(0, 60).Error("SEO title must be less than 60 characters")}
	blogSEODescriptionRules = []validation.Rule{validation.Length(0, 160).Error("SEO description must be less than 160 characters")}
)

type BlogService struct {
	repo   *repository.BlogRepository
	events broker.Publisher
	now    func() time.Time
}

func NewBlogService(repo *repository.BlogRepository, events broker.Publisher) *BlogService {
	if events == nil {
		events = broker.NopPublisher{}
	}
	return &BlogService{repo: repo, events: events, now: time.Now}
}

type CreateBlogInput struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Excerpt        *string  `json:"excerpt"`
	CoverImage     *string  `json:"coverImage"`
	Published      bool     `json:"published"`
	Featured       bool     `json:"featured"`
	Tags           []string `json:"tags"`
	SEOTitle       *string  `json:"seoTitle"`
	SEODescription *string  `json:"seoDescription"`
}

func (in CreateBlogInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, blogTitleRules...),
		validation.Field(&in.Content, blogContentRules...),
		validation.Field(&in.Excerpt, blogExcerptRules...),
		validation.Field(&in.CoverImage, blogCoverRules...),
		validation.Field(&in.SEOTitle, blogSEOTitleRules...),
		validation.Field(&in.SEODescription, blogSEODescriptionRules...),
	)
}

// BlogPatch is a partial blog update. Unset fields are left untouched;
// null clears the optional text fields.
type BlogPatch struct {
	Title          optional.Value[string]   `json:"title"`
	Content        optional.Value[string]   `json:"content"`
	Excerpt        optional.Value[string]   `json:"excerpt"`
	CoverImage     optional.Value[string]   `json:"coverImage"`
	Published      optional.Value[bool]     `json:"published"`
	Featured       optional.Value[bool]     `json:"featured"`
	Tags           optional.Value[[]string] `json:"tags"`
	SEOTitle       optional.Value[string]   `json:"seoTitle"`
	SEODescription optional.Value[string]   `json:"seoDescription"`
}

func (p BlogPatch) Validate() error {
	return validation.Errors{
		"title":          validateNotNull(p.Title, blogTitleRules...),
		"content":        validateNotNull(p.Content, blogContentRules...),
		"excerpt":        validateSet(p.Excerpt, blogExcerptRules...),
		"coverImage":     validateSet(p.CoverImage, blogCoverRules...),
		"published":      validateNotNull(p.Published),
		"featured":       validateNotNull(p.Featured),
		"tags":           validateNotNull(p.Tags),
		"seoTitle":       validateSet(p.SEOTitle, blogSEOTitleRules...),
		"seoDescription": validateSet(p.SEODescription, blogSEODescriptionRules...),
	}.Filter()
}

func (s *BlogService) List(ctx context.Context, filter repository.BlogFilter, page repository.Pagination) (*Page[models.Blog], error) {
	blogs, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		logger.Log.Error("Failed to list blogs", zap.Error(err))
		return nil, err
	}
	return &Page[models.Blog]{Items: blogs, Total: total, Pagination: page}, nil
}

// GetBySlug returns a blog. Every read of a published blog counts as one view.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	blog, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apperror.NotFound("Blog not found")
	}

	if blog.Published {
		if err := s.repo.IncrementViews(ctx, blog.ID); err != nil {
			logger.Log.Error("Failed to increment blog views",
				zap.String("blog_id", blog.ID),
				zap.Error(err),
			)
			return nil, err
		}
		blog.Views++
	}

	return blog, nil
}

func (s *BlogService) Create(ctx context.Context, identity *policy.Identity, in CreateBlogInput) (*models.Blog, error) {
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
		logger.Log.Warn("Blog slug already taken", zap.String("slug", slug))
		return nil, apperror.Conflict("A blog with this title already exists")
	}

	readTime := utils.ReadTime(in.Content)
	excerpt := in.Excerpt
	if excerpt == nil || *excerpt == "" {
		generated := utils.Excerpt(in.Content)
		excerpt = &generated
	}
	seoTitle := in.SEOTitle
	if seoTitle == nil || *seoTitle == "" {
		seoTitle = &in.Title
	}
	seoDescription := in.SEODescription
	if seoDescription == nil || *seoDescription == "" {
		seoDescription = in.Excerpt
	}

	blog := &models.Blog{
		Title:          in.Title,
		Slug:           slug,
		Content:        in.Content,
		Excerpt:        excerpt,
		CoverImage:     in.CoverImage,
		Published:      in.Published,
		Featured:       in.Featured,
		ReadTime:       &readTime,
		Tags:           normalizeList(in.Tags),
		SEOTitle:       seoTitle,
		SEODescription: seoDescription,
		AuthorID:       identity.UserID,
	}
	if in.Published {
		now := s.now()
		blog.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, blog); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("A blog with this title already exists")
		}
		logger.Log.Error("Failed to create blog", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Blog created",
		zap.String("blog_id", blog.ID),
		zap.String("slug", blog.Slug),
		zap.String("author_id", identity.UserID),
	)
	s.publish(ctx, broker.ActionCreated, blog, identity)

	return s.reload(ctx, blog.ID)
}

func (s *BlogService) Update(ctx context.Context, identity *policy.Identity, id string, patch BlogPatch) (*models.Blog, error) {
	if patch.Title.HasValue() {
		patch.Title.V = strings.TrimSpace(patch.Title.V)
	}
	if err := invalid(patch.Validate()); err != nil {
		return nil, err
	}

	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apperror.NotFound("Blog not found")
	}
	if err := policy.AuthorizeOwnership(identity, blog.AuthorID); err != nil {
		return nil, apperror.Forbidden("Not authorized to update this blog")
	}

	var columns []string

	if patch.Title.HasValue() && patch.Title.V != blog.Title {
		slug := utils.Slugify(patch.Title.V)
		if slug == "" {
			return nil, apperror.Validation("title: Title must contain at least one letter or number")
		}
		taken, err := s.repo.SlugExists(ctx, slug, blog.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			slug = utils.SuffixSlug(slug, s.now())
		}
		blog.Title = patch.Title.V
		blog.Slug = slug
		columns = append(columns, "title", "slug")
	}
	if patch.Content.HasValue() {
		blog.Content = patch.Content.V
		readTime := utils.ReadTime(blog.Content)
		blog.ReadTime = &readTime
		columns = append(columns, "content", "read_time")
	}
	if patch.Excerpt.Set {
		blog.Excerpt = patch.Excerpt.Ptr()
		columns = append(columns, "excerpt")
	}
	if patch.CoverImage.Set {
		blog.CoverImage = patch.CoverImage.Ptr()
		columns = append(columns, "cover_image")
	}
	if patch.Featured.HasValue() {
		blog.Featured = patch.Featured.V
		columns = append(columns, "featured")
	}
	if patch.Tags.HasValue() {
		blog.Tags = normalizeList(patch.Tags.V)
		columns = append(columns, "tags")
	}
	if patch.SEOTitle.Set {
		blog.SEOTitle = patch.SEOTitle.Ptr()
		columns = append(columns, "seo_title")
	}
	if patch.SEODescription.Set {
		blog.SEODescription = patch.SEODescription.Ptr()
		columns = append(columns, "seo_description")
	}
	if patch.Published.HasValue() {
		switch {
		case patch.Published.V && !blog.Published:
			now := s.now()
			blog.PublishedAt = &now
		case !patch.Published.V && blog.Published:
			blog.PublishedAt = nil
		}
		blog.Published = patch.Published.V
		columns = append(columns, "published", "published_at")
	}

	if err := s.repo.Update(ctx, blog, columns); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("A blog with this title already exists")
		}
		logger.Log.Error("Failed to update blog", zap.String("blog_id", id), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Blog updated",
		zap.String("blog_id", blog.ID),
		zap.String("actor_id", identity.UserID),
	)
	s.publish(ctx, broker.ActionUpdated, blog, identity)

	return s.reload(ctx, blog.ID)
}

func (s *BlogService) Delete(ctx context.Context, identity *policy.Identity, id string) error {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if blog == nil {
		return apperror.NotFound("Blog not found")
	}
	if err := policy.AuthorizeOwnership(identity, blog.AuthorID); err != nil {
		return apperror.Forbidden("Not authorized to delete this blog")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Log.Error("Failed to delete blog", zap.String("blog_id", id), zap.Error(err))
		return err
	}

	logger.Log.Info("Blog deleted",
		zap.String("blog_id", id),
		zap.String("actor_id", identity.UserID),
	)
	s.publish(ctx, broker.ActionDeleted, blog, identity)
	return nil
}

func (s *BlogService) Tags(ctx context.Context) ([]repository.FrequencyRow, error) {
	return s.repo.PublishedTags(ctx)
}

func (s *BlogService) Overview(ctx context.Context) (*repository.BlogOverview, error) {
	return s.repo.Overview(ctx)
}

func (s *BlogService) reload(ctx context.Context, id string) (*models.Blog, error) {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apperror.NotFound("Blog not found")
	}
	return blog, nil
}

// publish announces a change. Delivery is best effort.
func (s *BlogService) publish(ctx context.Context, action broker.Action, blog *models.Blog, identity *policy.Identity) {
	event := broker.Event{
		Resource:   resourceBlog,
		Action:     action,
		ID:         blog.ID,
		Slug:       blog.Slug,
		ActorID:    identity.UserID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish content event",
			zap.String("resource", resourceBlog),
			zap.String("action", string(action)),
			zap.String("id", blog.ID),
			zap.Error(err),
		)
	}
}

// normalizeList drops blank entries and surrounding whitespace.
func normalizeList(values []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
