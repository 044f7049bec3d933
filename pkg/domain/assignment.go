package domain

// Assignment commits a share of one engineer's capacity to one project.
// Engineer and Project are display snapshots and may be nil when the
// referenced record was deleted upstream.
type Assignment struct {
	ID                   string           `json:"id"`
	EngineerID           string           `json:"engineerId"`
	ProjectID            string           `json:"projectId"`
	Role                 string           `json:"role"`
	AllocationPercentage int              `json:"allocationPercentage"`
	StartDate            string           `json:"startDate"`
	EndDate              string           `json:"endDate,omitempty"`
	CreatedAt            string           `json:"createdAt,omitempty"`
	Progress             *int             `json:"progress,omitempty"`
	Engineer             *EngineerSummary `json:"engineer,omitempty"`
	Project              *ProjectSummary  `json:"project,omitempty"`
}

// Key returns the record id.
func (a Assignment) Key() string { return a.ID }

// EngineerName returns the snapshot name or "Unknown Engineer".
func (a Assignment) EngineerName() string {
	if a.Engineer == nil || a.Engineer.Name == "" {
		return "Unknown Engineer"
	}
	return a.Engineer.Name
}

// ProjectName returns the snapshot name or "Unknown Project".
func (a Assignment) ProjectName() string {
	if a.Project == nil || a.Project.Name == "" {
		return "Unknown Project"
	}
	return a.Project.Name
}

// EngineerSummary is the engineer snapshot embedded in an assignment.
type EngineerSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

// ProjectSummary is the project snapshot embedded in an assignment.
type ProjectSummary struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Status         ProjectStatus `json:"status,omitempty"`
	RequiredSkills []string      `json:"requiredSkills,omitempty"`
}
