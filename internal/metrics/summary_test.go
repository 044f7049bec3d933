package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naveenspark/roster/pkg/domain"
)

func TestSummarizeTeam(t *testing.T) {
	engineers := []domain.Engineer{
		{ID: "e1", Availability: 40},
		{ID: "e2", Availability: 100},
		{ID: "e3", Availability: 0},
	}
	projects := []domain.Project{
		{ID: "p1", Status: domain.StatusActive},
		{ID: "p2", Status: domain.StatusCompleted},
		{ID: "p3", Status: domain.StatusActive},
	}
	got := SummarizeTeam(engineers, projects)
	assert.Equal(t, Team{TotalEngineers: 3, ActiveProjects: 2, AvgAllocation: 53}, got)

	assert.Equal(t, Team{}, SummarizeTeam(nil, nil))
}

func TestSummarizeRoster(t *testing.T) {
	engineers := []domain.Engineer{
		{ID: "e1", Availability: 0, Seniority: domain.SenioritySenior, Department: "Platform"},
		{ID: "e2", Availability: 30, Seniority: domain.SeniorityJunior, Department: "Data"},
		{ID: "e3", Availability: 50, Seniority: domain.SenioritySenior},
	}
	assert.Equal(t, Roster{Total: 3, Available: 2, Senior: 2, Departments: 2}, SummarizeRoster(engineers))
}

func TestSummarizeAssignments(t *testing.T) {
	as := []domain.Assignment{
		{ID: "a1", AllocationPercentage: 50, Project: &domain.ProjectSummary{Name: "Atlas"}},
		{ID: "a2", AllocationPercentage: 25},
		{ID: "a3", AllocationPercentage: 100, Project: &domain.ProjectSummary{}},
	}
	assert.Equal(t, Assignments{Total: 3, Active: 1, AvgAllocation: 58}, SummarizeAssignments(as))
}

func TestSummarizeProject(t *testing.T) {
	p := domain.Project{ID: "p1", Status: domain.StatusActive}
	as := []domain.Assignment{
		{ProjectID: "p1", AllocationPercentage: 60},
		{ProjectID: "p1", AllocationPercentage: 90},
	}
	got := SummarizeProject(p, as)
	assert.Equal(t, ProjectLoad{TotalAllocation: 150, Assignments: 2, AvgAllocation: 75, Progress: 65}, got)
}

func TestSummarizeWorkload(t *testing.T) {
	as := []domain.Assignment{
		{EngineerID: "e1", AllocationPercentage: 70},
		{EngineerID: "e1", AllocationPercentage: 50},
	}

	t.Run("known engineer", func(t *testing.T) {
		self := &domain.Engineer{ID: "e1", Availability: 20, Skills: []string{"go", "sql"}}
		got := SummarizeWorkload(self, as)
		assert.Equal(t, 120, got.TotalAllocation)
		assert.Equal(t, 2, got.ActiveProjects)
		assert.Equal(t, 2, got.SkillCount)
		assert.Equal(t, 20, got.AvailableCapacity)
		assert.False(t, got.HasProgress)
	})

	t.Run("unknown engineer", func(t *testing.T) {
		got := SummarizeWorkload(nil, nil)
		assert.Equal(t, 100, got.AvailableCapacity)
		assert.Zero(t, got.TotalAllocation)
	})
}

func TestForEngineerAndProject(t *testing.T) {
	as := []domain.Assignment{
		{ID: "a1", EngineerID: "e1", ProjectID: "p1"},
		{ID: "a2", EngineerID: "e2", ProjectID: "p1"},
		{ID: "a3", EngineerID: "e1", ProjectID: "p2"},
	}
	mine := ForEngineer(as, "e1")
	assert.Equal(t, []string{"a1", "a3"}, ids(mine))
	assert.Equal(t, []string{"a1", "a2"}, ids(ForProject(as, "p1")))
	assert.Empty(t, ForEngineer(as, "nobody"))
}

func ids(as []domain.Assignment) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}
