// Package pdf turns a resume into HTML and prints that HTML to PDF.
package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(
	template.New("resume.html.tmpl").
		Funcs(template.FuncMap{
			"join":   strings.Join,
			"period": period,
		}).
		ParseFS(templateFS, "templates/resume.html.tmpl"),
)

type link struct {
	Label string
	URL   string
}

// SkillGroup is one category of skills, rendered as "Name (level), Name".
type SkillGroup struct {
	Category string
	Skills   []string
}

type resumeView struct {
	Info        models.PersonalInfo
	Contact     []string
	Links       []link
	Experience  []models.Experience
	Education   []models.Education
	SkillGroups []SkillGroup
	Projects    []models.ResumeProject
}

// RenderHTML produces the printable HTML document for a resume.
// Sections with no entries are left out.
func RenderHTML(resume *models.Resume) (string, error) {
	info := resume.PersonalInfo.Data()

	view := resumeView{
		Info:        info,
		Contact:     nonBlank(info.Email, info.Phone, info.Location),
		Experience:  resume.Experience,
		Education:   resume.Education,
		SkillGroups: GroupSkills(resume.Skills),
		Projects:    resume.Projects,
	}
	if info.Website != "" {
		view.Links = append(view.Links, link{Label: info.Website, URL: info.Website})
	}
	if info.LinkedIn != "" {
		view.Links = append(view.Links, link{Label: "LinkedIn", URL: info.LinkedIn})
	}
	if info.GitHub != "" {
		view.Links = append(view.Links, link{Label: "GitHub", URL: info.GitHub})
	}

	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute resume template: %w", err)
	}
	return buf.String(), nil
}

// GroupSkills buckets skills by category, keeping categories in the order
// they first appear.
func GroupSkills(skills []models.Skill) []SkillGroup {
	var groups []SkillGroup
	index := map[string]int{}

	for _, s := range skills {
		label := s.Name
		if s.Level != "" {
			label += " (" + s.Level + ")"
		}

		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, label)
	}
	return groups
}

func period(start, end string, current bool) string {
	if current {
		return start + " - Present"
	}
	return start + " - " + end
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
