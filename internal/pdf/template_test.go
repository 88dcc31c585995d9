package pdf

import (
	"strings"
	"testing"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func sampleResume() *models.Resume {
	return &models.Resume{
		Title: "Backend Engineer",
		PersonalInfo: datatypes.NewJSONType(models.PersonalInfo{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "+1 555 0100",
			Website:  "https://jane.dev",
			GitHub:   "https://github.com/jane",
			Summary:  "Builds APIs.",
		}),
		Experience: datatypes.JSONSlice[models.Experience]{{
			Position:     "Engineer",
			Company:      "Acme",
			StartDate:    "2021-01",
			Current:      true,
			Achievements: []string{"Shipped billing"},
		}},
		Skills: datatypes.JSONSlice[models.Skill]{
			{Name: "Go", Level: "Expert", Category: "Languages"},
			{Name: "PostgreSQL", Category: "Databases"},
			{Name: "TypeScript", Category: "Languages"},
		},
		Projects: datatypes.JSONSlice[models.ResumeProject]{{
			Name:         "Portfolio",
			Description:  "Personal site",
			Technologies: []string{"Go", "Gin"},
			GitHub:       "https://github.com/jane/portfolio",
		}},
	}
}

func TestRenderHTML_Sections(t *testing.T) {
	html, err := RenderHTML(sampleResume())
	require.NoError(t, err)

	assert.Contains(t, html, "Jane Doe")
	// html/template escapes "+" in text nodes.
	assert.Contains(t, html, "jane@example.com • &#43;1 555 0100")
	assert.Contains(t, html, `<a href="https://jane.dev">https://jane.dev</a> • <a href="https://github.com/jane">GitHub</a>`)
	assert.Contains(t, html, "Builds APIs.")
	assert.Contains(t, html, "2021-01 - Present")
	assert.Contains(t, html, "<li>Shipped billing</li>")
	assert.Contains(t, html, "Go (Expert), TypeScript")
	assert.Contains(t, html, "<strong>Technologies:</strong> Go, Gin")
	assert.Contains(t, html, `<a href="https://github.com/jane/portfolio">GitHub</a>`)
	assert.NotContains(t, html, "Live Demo")
}

func TestRenderHTML_OmitsEmptySections(t *testing.T) {
	resume := &models.Resume{
		PersonalInfo: datatypes.NewJSONType(models.PersonalInfo{FullName: "Solo", Email: "solo@example.com"}),
	}

	html, err := RenderHTML(resume)
	require.NoError(t, err)

	for _, section := range []string{"Experience", "Education", "Skills", "Projects"} {
		assert.NotContains(t, html, `<h2 class="section-title">`+section+`</h2>`)
	}
	assert.NotContains(t, html, "LinkedIn")
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	resume := sampleResume()
	info := resume.PersonalInfo.Data()
	info.Summary = "<script>alert(1)</script>"
	resume.PersonalInfo = datatypes.NewJSONType(info)

	html, err := RenderHTML(resume)
	require.NoError(t, err)

	assert.False(t, strings.Contains(html, "<script>alert(1)</script>"))
}

func TestGroupSkills_FirstAppearanceOrder(t *testing.T) {
	groups := GroupSkills([]models.Skill{
		{Name: "Docker", Category: "Tools"},
		{Name: "Go", Level: "Expert", Category: "Languages"},
		{Name: "Make", Category: "Tools"},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "Tools", groups[0].Category)
	assert.Equal(t, []string{"Docker", "Make"}, groups[0].Skills)
	assert.Equal(t, []string{"Go (Expert)"}, groups[1].Skills)
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "2019 - 2021", period("2019", "2021", false))
	assert.Equal(t, "2019 - Present", period("2019", "2021", true))
}
