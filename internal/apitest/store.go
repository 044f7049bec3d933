package apitest

import (
	"strings"

	"github.com/naveenspark/roster/pkg/domain"
)

// AddEngineer seeds an engineer. A non-empty password enables login.
func (s *Server) AddEngineer(e domain.Engineer, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engineers = append(s.engineers, e)
	if password != "" {
		s.passwords[strings.ToLower(e.Email)] = password
	}
}

// AddProject seeds a project.
func (s *Server) AddProject(p domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
}

// AddAssignment seeds an assignment and updates the engineer's availability.
func (s *Server) AddAssignment(a domain.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, a)
	s.recomputeAvailability(a.EngineerID)
}

// Assignments returns a snapshot of stored assignments.
func (s *Server) Assignments() []domain.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.assignments)
}

// Projects returns a snapshot of stored projects.
func (s *Server) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.projects)
}

func (s *Server) engineerIndex(id string) int {
	for i, e := range s.engineers {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) projectIndex(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) assignmentIndex(id string) int {
	for i, a := range s.assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) usedBy(engineerID string) int {
	used := 0
	for _, a := range s.assignments {
		if a.EngineerID == engineerID {
			used += a.AllocationPercentage
		}
	}
	return used
}

// recomputeAvailability keeps availability in step with assignments.
// Over-allocation is allowed and floors availability at zero.
func (s *Server) recomputeAvailability(engineerID string) {
	i := s.engineerIndex(engineerID)
	if i < 0 {
		return
	}
	e := &s.engineers[i]
	e.Availability = max(e.Capacity()-s.usedBy(engineerID), 0)
}

// populate attaches engineer and project snapshots when they resolve.
func (s *Server) populate(a domain.Assignment) domain.Assignment {
	a.Engineer, a.Project = nil, nil
	if i := s.engineerIndex(a.EngineerID); i >= 0 {
		e := s.engineers[i]
		a.Engineer = &domain.EngineerSummary{ID: e.ID, Name: e.Name, Email: e.Email, Skills: e.Skills}
	}
	if i := s.projectIndex(a.ProjectID); i >= 0 {
		p := s.projects[i]
		a.Project = &domain.ProjectSummary{ID: p.ID, Name: p.Name, Status: p.Status, RequiredSkills: p.RequiredSkills}
	}
	return a
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
