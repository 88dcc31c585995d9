package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/optional"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
	"github.com/rrishiddh/portfolio-project-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ResumeServiceIntegrationTestSuite struct {
	suite.Suite
	testDB        *testutil.TestDatabase
	renderer      *testutil.FakeRenderer
	store         *testutil.FakeStore
	resumeService *service.ResumeService
	owner         *models.User
	other         *models.User
	ctx           context.Context
}

func (s *ResumeServiceIntegrationTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.ctx = context.Background()
}

func (s *ResumeServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *ResumeServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.renderer = &testutil.FakeRenderer{}
	s.store = testutil.NewFakeStore()
	s.resumeService = service.NewResumeService(repository.NewResumeRepository(s.testDB.DB), s.renderer, s.store)
	s.owner = testutil.DefaultTestUser(s.T(), s.testDB.DB)
	s.other = testutil.DefaultAdminUser(s.T(), s.testDB.DB)
}

func (s *ResumeServiceIntegrationTestSuite) validInput() service.CreateResumeInput {
	return service.CreateResumeInput{
		Title: "Backend Engineer",
		PersonalInfo: &models.PersonalInfo{
			FullName: "Test User",
			Email:    "test@example.com",
		},
		Skills: []models.Skill{{Name: "Go", Category: "Languages"}},
	}
}

func (s *ResumeServiceIntegrationTestSuite) TestCreate() {
	resume, err := s.resumeService.Create(s.ctx, s.owner.ID, s.validInput())
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.DefaultResumeTemplate, resume.Template)
	assert.Equal(s.T(), s.owner.ID, resume.UserID)
	assert.Equal(s.T(), "Test User", resume.PersonalInfo.Data().FullName)
}

func (s *ResumeServiceIntegrationTestSuite) TestCreate_Validation() {
	in := s.validInput()
	in.PersonalInfo = nil
	_, err := s.resumeService.Create(s.ctx, s.owner.ID, in)
	assert.True(s.T(), apperror.Is(err, apperror.KindValidation))

	in = s.validInput()
	in.Skills = []models.Skill{{Name: "Go"}}
	_, err = s.resumeService.Create(s.ctx, s.owner.ID, in)
	require.True(s.T(), apperror.Is(err, apperror.KindValidation))
	assert.Contains(s.T(), err.Error(), "skills.0.category")
}

func (s *ResumeServiceIntegrationTestSuite) TestList_OnlyOwn() {
	testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Mine")
	testutil.CreateTestResume(s.T(), s.testDB.DB, s.other.ID, "Theirs")

	resumes, err := s.resumeService.List(s.ctx, s.owner.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), resumes, 1)
	assert.Equal(s.T(), "Mine", resumes[0].Title)
}

func (s *ResumeServiceIntegrationTestSuite) TestForeignAccessIsNotFound() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Private")

	_, err := s.resumeService.Get(s.ctx, s.other.ID, resume.ID)
	assert.True(s.T(), apperror.Is(err, apperror.KindNotFound))

	_, err = s.resumeService.Update(s.ctx, s.other.ID, resume.ID, service.ResumePatch{Title: optional.Of("Hijacked")})
	assert.True(s.T(), apperror.Is(err, apperror.KindNotFound))

	err = s.resumeService.Delete(s.ctx, s.other.ID, resume.ID)
	assert.True(s.T(), apperror.Is(err, apperror.KindNotFound))

	_, err = s.resumeService.GeneratePDF(s.ctx, s.other.ID, resume.ID)
	assert.True(s.T(), apperror.Is(err, apperror.KindNotFound))
	assert.Equal(s.T(), 0, s.renderer.Calls)
}

func (s *ResumeServiceIntegrationTestSuite) TestUpdate() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Old")

	updated, err := s.resumeService.Update(s.ctx, s.owner.ID, resume.ID, service.ResumePatch{
		Title:    optional.Of(" New "),
		Skills:   optional.Of([]models.Skill{}),
		Template: optional.Of(""),
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "New", updated.Title)
	assert.Empty(s.T(), updated.Skills)
	assert.NotNil(s.T(), updated.Skills)
	assert.Equal(s.T(), models.DefaultResumeTemplate, updated.Template)
	assert.Equal(s.T(), "Test User", updated.PersonalInfo.Data().FullName)

	_, err = s.resumeService.Update(s.ctx, s.owner.ID, resume.ID, service.ResumePatch{Title: optional.Null[string]()})
	assert.True(s.T(), apperror.Is(err, apperror.KindValidation))
}

func (s *ResumeServiceIntegrationTestSuite) TestDelete() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Gone")

	require.NoError(s.T(), s.resumeService.Delete(s.ctx, s.owner.ID, resume.ID))

	_, err := s.resumeService.Get(s.ctx, s.owner.ID, resume.ID)
	assert.True(s.T(), apperror.Is(err, apperror.KindNotFound))
}

func (s *ResumeServiceIntegrationTestSuite) TestGeneratePDF() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Senior Dev: 2024/Go")
	s.renderer.Data = []byte("%PDF-1.7 resume")

	doc, err := s.resumeService.GeneratePDF(s.ctx, s.owner.ID, resume.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), []byte("%PDF-1.7 resume"), doc.Data)
	assert.Equal(s.T(), "Senior Dev 2024Go.pdf", doc.Filename)
	assert.Equal(s.T(), 1, s.renderer.Calls)
	assert.Contains(s.T(), s.renderer.HTML, "Test User")
}

func (s *ResumeServiceIntegrationTestSuite) TestGeneratePDF_RenderFailure() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Broken")
	s.renderer.Err = errors.New("chrome crashed")

	doc, err := s.resumeService.GeneratePDF(s.ctx, s.owner.ID, resume.ID)
	assert.Nil(s.T(), doc)
	assert.True(s.T(), apperror.Is(err, apperror.KindRenderFailed))
}

func (s *ResumeServiceIntegrationTestSuite) TestArchivePDF() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Archived")

	link, err := s.resumeService.ArchivePDF(s.ctx, s.owner.ID, resume.ID)
	require.NoError(s.T(), err)

	assert.True(s.T(), strings.HasPrefix(link.Key, "resumes/"+s.owner.ID+"/"+resume.ID+"/"))
	assert.True(s.T(), strings.HasSuffix(link.Key, ".pdf"))
	assert.Contains(s.T(), s.store.Objects, link.Key)
	assert.Equal(s.T(), "https://storage.test/"+link.Key+"?filename=Archived.pdf", link.URL)
	assert.False(s.T(), link.ExpiresAt.IsZero())
}

func (s *ResumeServiceIntegrationTestSuite) TestArchivePDF_StoreFailure() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Archived")
	s.store.Err = errors.New("bucket unavailable")

	_, err := s.resumeService.ArchivePDF(s.ctx, s.owner.ID, resume.ID)
	assert.Error(s.T(), err)
	assert.Empty(s.T(), s.store.Objects)
}

func (s *ResumeServiceIntegrationTestSuite) TestArchivePDF_NotConfigured() {
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "Archived")
	svc := service.NewResumeService(repository.NewResumeRepository(s.testDB.DB), s.renderer, nil)

	_, err := svc.ArchivePDF(s.ctx, s.owner.ID, resume.ID)
	assert.True(s.T(), apperror.Is(err, apperror.KindValidation))
	assert.Equal(s.T(), 0, s.renderer.Calls)
}

func (s *ResumeServiceIntegrationTestSuite) TestOverview() {
	testutil.CreateTestResume(s.T(), s.testDB.DB, s.owner.ID, "One")
	testutil.CreateTestResume(s.T(), s.testDB.DB, s.other.ID, "Two")

	overview, err := s.resumeService.Overview(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), overview.Stats.TotalResumes)
	assert.Len(s.T(), overview.RecentResumes, 2)
}

func TestResumeServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ResumeServiceIntegrationTestSuite))
}

func TestPDFFilename(t *testing.T) {
	assert.Equal(t, "My Resume.pdf", service.PDFFilename("My Resume"))
	assert.Equal(t, "resume.pdf", service.PDFFilename("???"))
	assert.Equal(t, "a-b_c.d.pdf", service.PDFFilename("a-b_c.d"))
}
