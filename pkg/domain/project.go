package domain

// ProjectStatus is a project's lifecycle stage.
type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
)

// ProjectStatuses lists the known statuses in lifecycle order.
var ProjectStatuses = []ProjectStatus{StatusPlanning, StatusActive, StatusCompleted}

// ValidStatus returns true if s is a known project status.
func ValidStatus(s ProjectStatus) bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Project is a unit of work engineers are assigned to.
type Project struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Status         ProjectStatus `json:"status"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate,omitempty"`
	TeamSize       int           `json:"teamSize"`
	RequiredSkills []string      `json:"requiredSkills"`
	ManagerID      string        `json:"managerId"`
}

// Key returns the record id.
func (p Project) Key() string { return p.ID }
