package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/metrics"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/optional"
	"github.com/rrishiddh/portfolio-project-backend/internal/pdf"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// PDFLinkTTL is how long an archived resume download link stays valid.
const PDFLinkTTL = 15 * time.Minute

var (
	resumeTitleRules = []validation.Rule{
		validation.Required.Error("Title is required"),
		validation.Length(1, 100).Error("Title must be less than 100 characters"),
	}
	resumeTemplateRules = []validation.Rule{
		validation.Length(0, 50).Error("Template must be less than 50 characters"),
	}

	unsafeFilenameChars = regexp.MustCompile(`[^\w\s.-]`)
)

// ObjectStore archives rendered documents and hands out download links.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key, filename string, ttl time.Duration) (string, error)
}

type ResumeService struct {
	repo     *repository.ResumeRepository
	renderer pdf.Renderer
	store    ObjectStore
}

// NewResumeService builds the service. store may be nil when archiving is off.
func NewResumeService(repo *repository.ResumeRepository, renderer pdf.Renderer, store ObjectStore) *ResumeService {
	return &ResumeService{repo: repo, renderer: renderer, store: store}
}

type CreateResumeInput struct {
	Title        string                 `json:"title"`
	PersonalInfo *models.PersonalInfo   `json:"personalInfo"`
	Experience   []models.Experience    `json:"experience"`
	Education    []models.Education     `json:"education"`
	Skills       []models.Skill         `json:"skills"`
	Projects     []models.ResumeProject `json:"projects"`
	Template     string                 `json:"template"`
}

func (in CreateResumeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, resumeTitleRules...),
		validation.Field(&in.PersonalInfo, validation.Required.Error("Personal info is required")),
		validation.Field(&in.Experience),
		validation.Field(&in.Education),
		validation.Field(&in.Skills),
		validation.Field(&in.Projects),
		validation.Field(&in.Template, resumeTemplateRules...),
	)
}

type ResumePatch struct {
	Title        optional.Value[string]                 `json:"title"`
	PersonalInfo optional.Value[models.PersonalInfo]    `json:"personalInfo"`
	Experience   optional.Value[[]models.Experience]    `json:"experience"`
	Education    optional.Value[[]models.Education]     `json:"education"`
	Skills       optional.Value[[]models.Skill]         `json:"skills"`
	Projects     optional.Value[[]models.ResumeProject] `json:"projects"`
	Template     optional.Value[string]                 `json:"template"`
}

func (p ResumePatch) Validate() error {
	return validation.Errors{
		"title":        validateNotNull(p.Title, resumeTitleRules...),
		"personalInfo": validateNotNull(p.PersonalInfo),
		"experience":   validateNotNull(p.Experience),
		"education":    validateNotNull(p.Education),
		"skills":       validateNotNull(p.Skills),
		"projects":     validateNotNull(p.Projects),
		"template":     validateNotNull(p.Template, resumeTemplateRules...),
	}.Filter()
}

// PDFDocument is a rendered resume ready to stream.
type PDFDocument struct {
	Filename string
	Data     []byte
}

// PDFLink is an archived resume PDF.
type PDFLink struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *ResumeService) List(ctx context.Context, userID string) ([]models.ResumeSummary, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns the resume only to its owner. Anyone else gets NOT_FOUND.
func (s *ResumeService) Get(ctx context.Context, userID, id string) (*models.Resume, error) {
	resume, err := s.repo.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, apperror.NotFound("Resume not found")
	}
	return resume, nil
}

func (s *ResumeService) Create(ctx context.Context, userID string, in CreateResumeInput) (*models.Resume, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}

	template := strings.TrimSpace(in.Template)
	if template == "" {
		template = models.DefaultResumeTemplate
	}

	resume := &models.Resume{
		Title:        in.Title,
		PersonalInfo: datatypes.NewJSONType(*in.PersonalInfo),
		Experience:   datatypes.JSONSlice[models.Experience](in.Experience),
		Education:    datatypes.JSONSlice[models.Education](in.Education),
		Skills:       datatypes.JSONSlice[models.Skill](in.Skills),
		Projects:     datatypes.JSONSlice[models.ResumeProject](in.Projects),
		Template:     template,
		UserID:       userID,
	}

	if err := s.repo.Create(ctx, resume); err != nil {
		logger.Log.Error("Failed to create resume", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Resume created",
		zap.String("resume_id", resume.ID),
		zap.String("user_id", userID),
	)
	return resume, nil
}

func (s *ResumeService) Update(ctx context.Context, userID, id string, patch ResumePatch) (*models.Resume, error) {
	if patch.Title.HasValue() {
		patch.Title.V = strings.TrimSpace(patch.Title.V)
	}
	if err := invalid(patch.Validate()); err != nil {
		return nil, err
	}

	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var columns []string
	if patch.Title.HasValue() {
		resume.Title = patch.Title.V
		columns = append(columns, "title")
	}
	if patch.PersonalInfo.HasValue() {
		resume.PersonalInfo = datatypes.NewJSONType(patch.PersonalInfo.V)
		columns = append(columns, "personal_info")
	}
	if patch.Experience.HasValue() {
		resume.Experience = datatypes.JSONSlice[models.Experience](patch.Experience.V)
		columns = append(columns, "experience")
	}
	if patch.Education.HasValue() {
		resume.Education = datatypes.JSONSlice[models.Education](patch.Education.V)
		columns = append(columns, "education")
	}
	if patch.Skills.HasValue() {
		resume.Skills = datatypes.JSONSlice[models.Skill](patch.Skills.V)
		columns = append(columns, "skills")
	}
	if patch.Projects.HasValue() {
		resume.Projects = datatypes.JSONSlice[models.ResumeProject](patch.Projects.V)
		columns = append(columns, "projects")
	}
	if patch.Template.HasValue() {
		resume.Template = strings.TrimSpace(patch.Template.V)
		if resume.Template == "" {
			resume.Template = models.DefaultResumeTemplate
		}
		columns = append(columns, "template")
	}

	// Empty lists are stored as [] rather than null.
	resume.Normalize()

	if err := s.repo.Update(ctx, resume, columns); err != nil {
		logger.Log.Error("Failed to update resume", zap.String("resume_id", id), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Resume updated", zap.String("resume_id", id), zap.String("user_id", userID))
	return resume, nil
}

func (s *ResumeService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Log.Error("Failed to delete resume", zap.String("resume_id", id), zap.Error(err))
		return err
	}

	logger.Log.Info("Resume deleted", zap.String("resume_id", id), zap.String("user_id", userID))
	return nil
}

// GeneratePDF renders the owner's resume. Any rendering failure is RENDER_FAILED
// and no partial document is returned.
func (s *ResumeService) GeneratePDF(ctx context.Context, userID, id string) (*PDFDocument, error) {
	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	html, err := pdf.RenderHTML(resume)
	if err != nil {
		logger.Log.Error("Failed to build resume HTML", zap.String("resume_id", id), zap.Error(err))
		return nil, apperror.RenderFailed(err)
	}

	start := time.Now()
	data, err := s.renderer.Render(ctx, html)
	metrics.ObservePDFRender(start, err)
	if err != nil {
		logger.Log.Error("PDF generation failed",
			zap.String("resume_id", id),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, apperror.RenderFailed(err)
	}

	logger.Log.Info("Resume PDF generated",
		zap.String("resume_id", id),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
	)

	return &PDFDocument{Filename: PDFFilename(resume.Title), Data: data}, nil
}

// ArchivePDF renders the resume, stores it in the bucket and returns a
// short-lived download link.
func (s *ResumeService) ArchivePDF(ctx context.Context, userID, id string) (*PDFLink, error) {
	if s.store == nil {
		return nil, apperror.Validation("PDF archive is not configured")
	}

	doc, err := s.GeneratePDF(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("resumes/%s/%s/%s.pdf", userID, id, uuid.NewString())
	if err := s.store.Upload(ctx, key, doc.Data, "application/pdf"); err != nil {
		logger.Log.Error("Failed to archive resume PDF", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	url, err := s.store.PresignedURL(ctx, key, doc.Filename, PDFLinkTTL)
	if err != nil {
		logger.Log.Error("Failed to presign resume PDF", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Resume PDF archived", zap.String("resume_id", id), zap.String("key", key))
	return &PDFLink{URL: url, Key: key, ExpiresAt: time.Now().Add(PDFLinkTTL).UTC()}, nil
}

func (s *ResumeService) Overview(ctx context.Context) (*repository.ResumeOverview, error) {
	return s.repo.Overview(ctx)
}

// PDFFilename derives a header-safe download name from a resume title.
func PDFFilename(title string) string {
	name := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(title, ""))
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}
