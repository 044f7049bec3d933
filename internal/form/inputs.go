package form

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/naveenspark/roster/pkg/client"
	"github.com/naveenspark/roster/pkg/domain"
)

// AssignmentInput is the create/edit assignment form.
type AssignmentInput struct {
	EngineerID           string `json:"engineerId" validate:"required"`
	ProjectID            string `json:"projectId" validate:"required"`
	AllocationPercentage int    `json:"allocationPercentage" validate:"min=1,max=100"`
	StartDate            string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate              string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Role                 string `json:"role" validate:"required"`
}

func assignmentStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(AssignmentInput)
	if endBeforeStart(in.StartDate, in.EndDate) {
		sl.ReportError(in.EndDate, "endDate", "EndDate", endBeforeTag, "")
	}
}

// Request converts a validated input into the API payload.
func (in AssignmentInput) Request() client.AssignmentRequest {
	return client.AssignmentRequest{
		EngineerID:           in.EngineerID,
		ProjectID:            in.ProjectID,
		AllocationPercentage: in.AllocationPercentage,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		Role:                 strings.TrimSpace(in.Role),
	}
}

// AssignmentFrom pre-fills the edit form from an existing assignment.
func AssignmentFrom(a domain.Assignment) AssignmentInput {
	return AssignmentInput{
		EngineerID:           a.EngineerID,
		ProjectID:            a.ProjectID,
		AllocationPercentage: a.AllocationPercentage,
		StartDate:            dateOnly(a.StartDate),
		EndDate:              dateOnly(a.EndDate),
		Role:                 a.Role,
	}
}

// ProjectInput is the create/edit project form.
type ProjectInput struct {
	Name           string               `json:"name" validate:"required"`
	Description    string               `json:"description"`
	Status         domain.ProjectStatus `json:"status" validate:"omitempty,oneof=planning active completed"`
	StartDate      string               `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string               `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	TeamSize       int                  `json:"teamSize" validate:"min=0"`
	RequiredSkills []string             `json:"requiredSkills"`
}

func projectStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(ProjectInput)
	if endBeforeStart(in.StartDate, in.EndDate) {
		sl.ReportError(in.EndDate, "endDate", "EndDate", endBeforeTag, "")
	}
}

// Request converts a validated input into the API payload. Status defaults
// to planning and team size to 1; managerID is the signed-in manager.
func (in ProjectInput) Request(managerID string) client.ProjectRequest {
	status := in.Status
	if status == "" {
		status = domain.StatusPlanning
	}
	size := in.TeamSize
	if size < 1 {
		size = 1
	}
	skills := in.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return client.ProjectRequest{
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Status:         status,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		TeamSize:       size,
		RequiredSkills: skills,
		ManagerID:      managerID,
	}
}

// ProfileInput is the profile edit form.
type ProfileInput struct {
	Name        string           `json:"name" validate:"required"`
	Skills      []string         `json:"skills"`
	Seniority   domain.Seniority `json:"seniority" validate:"omitempty,oneof=junior mid senior"`
	MaxCapacity int              `json:"maxCapacity" validate:"min=0,max=100"`
	Department  string           `json:"department"`
}

// ProfileFrom pre-fills the form from the current profile.
func ProfileFrom(p domain.Profile) ProfileInput {
	return ProfileInput{
		Name:        p.Name,
		Skills:      p.Skills,
		Seniority:   p.Seniority,
		MaxCapacity: p.MaxCapacity,
		Department:  p.Department,
	}
}

// Request converts a validated input into the API payload. A zero
// capacity becomes the default of 100.
func (in ProfileInput) Request() client.ProfileRequest {
	capacity := in.MaxCapacity
	if capacity == 0 {
		capacity = domain.DefaultMaxCapacity
	}
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}
	return client.ProfileRequest{
		Name:        strings.TrimSpace(in.Name),
		Skills:      skills,
		Seniority:   in.Seniority,
		MaxCapacity: capacity,
		Department:  strings.TrimSpace(in.Department),
	}
}

// EngineerInput is the add-engineer form.
type EngineerInput struct {
	Name        string           `json:"name" validate:"required"`
	Email       string           `json:"email" validate:"required,email"`
	Seniority   domain.Seniority `json:"seniority" validate:"required,oneof=junior mid senior"`
	Department  string           `json:"department"`
	Skills      []string         `json:"skills"`
	MaxCapacity int              `json:"maxCapacity" validate:"min=0,max=100"`
}

// Request converts a validated input into the API payload.
func (in EngineerInput) Request() client.CreateEngineerRequest {
	capacity := in.MaxCapacity
	if capacity == 0 {
		capacity = domain.DefaultMaxCapacity
	}
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}
	return client.CreateEngineerRequest{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Seniority:   in.Seniority,
		Department:  strings.TrimSpace(in.Department),
		Skills:      skills,
		MaxCapacity: capacity,
	}
}

func dateOnly(s string) string {
	if len(s) >= len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
