package metrics

import "github.com/naveenspark/roster/pkg/domain"

// Team is the manager dashboard header.
type Team struct {
	TotalEngineers int
	ActiveProjects int
	AvgAllocation  int // mean used capacity across engineers
}

// SummarizeTeam computes the manager dashboard header.
func SummarizeTeam(engineers []domain.Engineer, projects []domain.Project) Team {
	return Team{
		TotalEngineers: Count(engineers),
		ActiveProjects: Count(FilterByStatus(projects, domain.StatusActive)),
		AvgAllocation:  Average(engineers, UsedCapacity),
	}
}

// Roster is the engineer list header.
type Roster struct {
	Total       int
	Available   int
	Senior      int
	Departments int
}

// SummarizeRoster computes the engineer list header.
func SummarizeRoster(engineers []domain.Engineer) Roster {
	return Roster{
		Total:       Count(engineers),
		Available:   CountWhere(engineers, func(e domain.Engineer) bool { return e.Availability > 0 }),
		Senior:      CountWhere(engineers, func(e domain.Engineer) bool { return e.Seniority == domain.SenioritySenior }),
		Departments: DistinctNonEmpty(engineers, func(e domain.Engineer) string { return e.Department }),
	}
}

// Assignments is the assignment list header.
type Assignments struct {
	Total         int
	Active        int // assignments whose project snapshot resolved
	AvgAllocation int
}

// SummarizeAssignments computes the assignment list header.
func SummarizeAssignments(assignments []domain.Assignment) Assignments {
	return Assignments{
		Total: Count(assignments),
		Active: CountWhere(assignments, func(a domain.Assignment) bool {
			return a.Project != nil && a.Project.Name != ""
		}),
		AvgAllocation: Average(assignments, allocation),
	}
}

// ProjectLoad is the project detail header.
type ProjectLoad struct {
	TotalAllocation int
	Assignments     int
	AvgAllocation   int
	Progress        int
}

// SummarizeProject computes the project detail header from the project and
// the assignments that reference it.
func SummarizeProject(p domain.Project, assignments []domain.Assignment) ProjectLoad {
	return ProjectLoad{
		TotalAllocation: SumAllocation(assignments),
		Assignments:     Count(assignments),
		AvgAllocation:   Average(assignments, allocation),
		Progress:        StageProgress(p.Status),
	}
}

// Workload is the engineer dashboard header.
type Workload struct {
	TotalAllocation   int
	ActiveProjects    int
	SkillCount        int
	AvailableCapacity int
	AvgProgress       int
	HasProgress       bool
}

// SummarizeWorkload computes the engineer dashboard header. self may be nil
// when the engineer record could not be found; capacity then reads as 100.
func SummarizeWorkload(self *domain.Engineer, assignments []domain.Assignment) Workload {
	w := Workload{
		TotalAllocation:   SumAllocation(assignments),
		ActiveProjects:    Count(assignments),
		AvailableCapacity: 100,
	}
	if self != nil {
		w.SkillCount = len(self.Skills)
		if self.Availability > 0 {
			w.AvailableCapacity = self.Availability
		}
	}
	w.AvgProgress, w.HasProgress = AverageProgress(assignments)
	return w
}

// ForEngineer returns the assignments belonging to engineerID, in order.
func ForEngineer(assignments []domain.Assignment, engineerID string) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range assignments {
		if a.EngineerID == engineerID {
			out = append(out, a)
		}
	}
	return out
}

// ForProject returns the assignments referencing projectID, in order.
func ForProject(assignments []domain.Assignment, projectID string) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

func allocation(a domain.Assignment) int { return a.AllocationPercentage }
