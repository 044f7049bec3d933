package domain

import "testing"

func TestValidStatus(t *testing.T) {
	tests := []struct {
		name   string
		status ProjectStatus
		valid  bool
	}{
		{"valid planning", StatusPlanning, true},
		{"valid active", StatusActive, true},
		{"valid completed", StatusCompleted, true},
		{"invalid empty", "", false},
		{"invalid archived", "archived", false},
		{"invalid capitalized", "Active", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStatus(tt.status); got != tt.valid {
				t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.valid)
			}
		})
	}
}

func TestValidSeniority(t *testing.T) {
	for _, s := range Seniorities {
		if !ValidSeniority(s) {
			t.Errorf("ValidSeniority(%q) = false, want true", s)
		}
	}
	if ValidSeniority("principal") {
		t.Error("ValidSeniority(principal) = true, want false")
	}
}

func TestEngineerCapacityDefault(t *testing.T) {
	if got := (Engineer{}).Capacity(); got != DefaultMaxCapacity {
		t.Errorf("Capacity() = %d, want %d", got, DefaultMaxCapacity)
	}
	if got := (Engineer{MaxCapacity: 50}).Capacity(); got != 50 {
		t.Errorf("Capacity() = %d, want 50", got)
	}
}

func TestAssignmentNamesDegrade(t *testing.T) {
	a := Assignment{ID: "a1"}
	if got := a.EngineerName(); got != "Unknown Engineer" {
		t.Errorf("EngineerName() = %q, want Unknown Engineer", got)
	}
	if got := a.ProjectName(); got != "Unknown Project" {
		t.Errorf("ProjectName() = %q, want Unknown Project", got)
	}

	a.Engineer = &EngineerSummary{Name: "Ada"}
	a.Project = &ProjectSummary{Name: "Atlas"}
	if got := a.EngineerName(); got != "Ada" {
		t.Errorf("EngineerName() = %q, want Ada", got)
	}
	if got := a.ProjectName(); got != "Atlas" {
		t.Errorf("ProjectName() = %q, want Atlas", got)
	}
}
