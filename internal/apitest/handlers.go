package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/naveenspark/roster/pkg/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	pw, known := s.passwords[strings.ToLower(req.Email)]
	var found *domain.Engineer
	for i := range s.engineers {
		if strings.EqualFold(s.engineers[i].Email, req.Email) {
			e := s.engineers[i]
			found = &e
		}
	}
	s.mu.Unlock()

	if !known || pw != req.Password || found == nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": Token(found.ID, found.Name, found.Role),
		"user":  profileOf(*found),
	})
}

func profileOf(e domain.Engineer) domain.Profile {
	return domain.Profile{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Role:        e.Role,
		Seniority:   e.Seniority,
		Department:  e.Department,
		Skills:      e.Skills,
		MaxCapacity: e.Capacity(),
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.engineerIndex(caller(r).ID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, profileOf(s.engineers[i]))
}

type profileRequest struct {
	Name        string           `json:"name"`
	Skills      []string         `json:"skills"`
	Seniority   domain.Seniority `json:"seniority"`
	MaxCapacity int              `json:"maxCapacity"`
	Department  string           `json:"department"`
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.engineerIndex(caller(r).ID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	e := &s.engineers[i]
	e.Name = req.Name
	e.Skills = req.Skills
	e.Seniority = req.Seniority
	e.MaxCapacity = req.MaxCapacity
	e.Department = req.Department
	s.recomputeAvailability(e.ID)
	writeJSON(w, http.StatusOK, profileOf(*e))
}

func (s *Server) listEngineers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"engineers": clone(s.engineers)})
}

func (s *Server) getEngineer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.engineerIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Engineer not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"engineer": s.engineers[i]})
}

type engineerRequest struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	Seniority   domain.Seniority `json:"seniority"`
	Department  string           `json:"department"`
	Skills      []string         `json:"skills"`
	MaxCapacity int              `json:"maxCapacity"`
}

func (s *Server) createEngineer(w http.ResponseWriter, r *http.Request) {
	var req engineerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.engineers {
		if strings.EqualFold(e.Email, req.Email) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
	}
	now := time.Now().UTC()
	e := domain.Engineer{
		ID:           s.nextID("e"),
		Name:         req.Name,
		Email:        req.Email,
		Role:         domain.RoleEngineer,
		Seniority:    req.Seniority,
		Department:   req.Department,
		Skills:       req.Skills,
		MaxCapacity:  req.MaxCapacity,
		Availability: 100,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
	s.engineers = append(s.engineers, e)
	if req.Password != "" {
		s.passwords[strings.ToLower(req.Email)] = req.Password
	}
	writeJSON(w, http.StatusCreated, map[string]any{"engineer": e})
}

func (s *Server) deleteEngineer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	i := s.engineerIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Engineer not found")
		return
	}
	s.engineers = append(s.engineers[:i:i], s.engineers[i+1:]...)
	kept := s.assignments[:0:0]
	for _, a := range s.assignments {
		if a.EngineerID != id {
			kept = append(kept, a)
		}
	}
	s.assignments = kept
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getCapacity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	i := s.engineerIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Engineer not found")
		return
	}
	total := s.engineers[i].Capacity()
	used := s.usedBy(id)
	writeJSON(w, http.StatusOK, map[string]any{"capacity": domain.Capacity{
		EngineerID:        id,
		TotalCapacity:     total,
		UsedCapacity:      used,
		AvailableCapacity: max(total-used, 0),
	}})
}

func (s *Server) listProjects(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"projects": clone(s.projects)})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": s.projects[i]})
}

type projectRequest struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Status         domain.ProjectStatus `json:"status"`
	StartDate      string               `json:"startDate"`
	EndDate        string               `json:"endDate"`
	TeamSize       int                  `json:"teamSize"`
	RequiredSkills []string             `json:"requiredSkills"`
	ManagerID      string               `json:"managerId"`
}

func (req projectRequest) apply(p *domain.Project) {
	p.Name = req.Name
	p.Description = req.Description
	p.Status = req.Status
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
	p.TeamSize = req.TeamSize
	p.RequiredSkills = req.RequiredSkills
	if req.ManagerID != "" {
		p.ManagerID = req.ManagerID
	}
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.StartDate == "" {
		writeError(w, http.StatusBadRequest, "Name and start date are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Project{ID: s.nextID("p"), ManagerID: caller(r).ID}
	req.apply(&p)
	s.projects = append(s.projects, p)
	writeJSON(w, http.StatusCreated, map[string]any{"project": p})
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	req.apply(&s.projects[i])
	writeJSON(w, http.StatusOK, map[string]any{"project": s.projects[i]})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := mux.Vars(r)["id"]
	i := s.projectIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := caller(r)
	out := make([]domain.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if c.Role == domain.RoleManager || a.EngineerID == c.ID {
			out = append(out, s.populate(a))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": out})
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.assignmentIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	a := s.assignments[i]
	if c := caller(r); c.Role != domain.RoleManager && a.EngineerID != c.ID {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignment": s.populate(a)})
}

type assignmentRequest struct {
	EngineerID           string `json:"engineerId"`
	ProjectID            string `json:"projectId"`
	AllocationPercentage int    `json:"allocationPercentage"`
	StartDate            string `json:"startDate"`
	EndDate              string `json:"endDate"`
	Role                 string `json:"role"`
}

func (req assignmentRequest) invalid() string {
	switch {
	case req.EngineerID == "" || req.ProjectID == "" || req.StartDate == "" || req.Role == "":
		return "Missing required fields"
	case req.AllocationPercentage < 1 || req.AllocationPercentage > 100:
		return "Allocation percentage must be between 1 and 100"
	}
	return ""
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.invalid(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engineerIndex(req.EngineerID) < 0 || s.projectIndex(req.ProjectID) < 0 {
		writeError(w, http.StatusBadRequest, "Engineer or project not found")
		return
	}
	a := domain.Assignment{
		ID:                   s.nextID("a"),
		EngineerID:           req.EngineerID,
		ProjectID:            req.ProjectID,
		Role:                 req.Role,
		AllocationPercentage: req.AllocationPercentage,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		CreatedAt:            time.Now().UTC().Format(time.RFC3339),
	}
	s.assignments = append(s.assignments, a)
	s.recomputeAvailability(a.EngineerID)
	writeJSON(w, http.StatusCreated, map[string]any{"assignment": s.populate(a)})
}

func (s *Server) updateAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.invalid(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.assignmentIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	prev := s.assignments[i].EngineerID
	a := &s.assignments[i]
	a.EngineerID = req.EngineerID
	a.ProjectID = req.ProjectID
	a.AllocationPercentage = req.AllocationPercentage
	a.StartDate = req.StartDate
	a.EndDate = req.EndDate
	a.Role = req.Role
	s.recomputeAvailability(prev)
	s.recomputeAvailability(a.EngineerID)
	writeJSON(w, http.StatusOK, map[string]any{"assignment": s.populate(*a)})
}

func (s *Server) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.assignmentIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Assignment not found")
		return
	}
	engineerID := s.assignments[i].EngineerID
	s.assignments = append(s.assignments[:i:i], s.assignments[i+1:]...)
	s.recomputeAvailability(engineerID)
	w.WriteHeader(http.StatusNoContent)
}
