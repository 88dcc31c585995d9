package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultResumeTemplate = "modern"

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

func (p PersonalInfo) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FullName, validation.Required.Error("Full name is required")),
		validation.Field(&p.Email, validation.Required, is.Email.Error("Invalid email address")),
		validation.Field(&p.Website, is.RequestURL.Error("Invalid website URL")),
		validation.Field(&p.LinkedIn, is.RequestURL.Error("Invalid LinkedIn URL")),
		validation.Field(&p.GitHub, is.RequestURL.Error("Invalid GitHub URL")),
	)
}

type Experience struct {
	Position     string   `json:"position"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements"`
}

func (e Experience) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Position, validation.Required.Error("Position is required")),
		validation.Field(&e.Company, validation.Required.Error("Company is required")),
		validation.Field(&e.StartDate, validation.Required.Error("Start date is required")),
	)
}

type Education struct {
	Degree       string   `json:"degree"`
	Field        string   `json:"field,omitempty"`
	Institution  string   `json:"institution"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements"`
}

func (e Education) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Degree, validation.Required.Error("Degree is required")),
		validation.Field(&e.Institution, validation.Required.Error("Institution is required")),
		validation.Field(&e.StartDate, validation.Required.Error("Start date is required")),
	)
}

type Skill struct {
	Name     string `json:"name"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category"`
}

func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required.Error("Skill name is required")),
		validation.Field(&s.Category, validation.Required.Error("Category is required")),
	)
}

// ResumeProject is a project entry inside a resume, unrelated to the Project showcase.
type ResumeProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	GitHub       string   `json:"github,omitempty"`
	Highlights   []string `json:"highlights"`
}

func (p ResumeProject) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required.Error("Project name is required")),
		validation.Field(&p.Description, validation.Required.Error("Description is required")),
		validation.Field(&p.URL, is.RequestURL.Error("Invalid project URL")),
		validation.Field(&p.GitHub, is.RequestURL.Error("Invalid GitHub URL")),
	)
}

type Resume struct {
	ID           string                             `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string                             `gorm:"type:varchar(100);not null" json:"title"`
	PersonalInfo datatypes.JSONType[PersonalInfo]   `json:"personalInfo"`
	Experience   datatypes.JSONSlice[Experience]    `json:"experience"`
	Education    datatypes.JSONSlice[Education]     `json:"education"`
	Skills       datatypes.JSONSlice[Skill]         `json:"skills"`
	Projects     datatypes.JSONSlice[ResumeProject] `json:"projects"`
	Template     string                             `gorm:"type:varchar(50);not null;default:'modern'" json:"template"`
	UserID       string                             `gorm:"type:varchar(36);not null;index" json:"userId"`
	User         *User                              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt    time.Time                          `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time                          `gorm:"index" json:"updatedAt"`
}

func (r *Resume) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Template == "" {
		r.Template = DefaultResumeTemplate
	}
	r.Normalize()
	return nil
}

func (r *Resume) AfterFind(tx *gorm.DB) error {
	r.Normalize()
	return nil
}

// Normalize replaces nil section lists with empty ones so they encode as [].
func (r *Resume) Normalize() {
	if r.Experience == nil {
		r.Experience = datatypes.JSONSlice[Experience]{}
	}
	if r.Education == nil {
		r.Education = datatypes.JSONSlice[Education]{}
	}
	if r.Skills == nil {
		r.Skills = datatypes.JSONSlice[Skill]{}
	}
	if r.Projects == nil {
		r.Projects = datatypes.JSONSlice[ResumeProject]{}
	}
}

// ResumeSummary is the list view of a resume.
type ResumeSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
