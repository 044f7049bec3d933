package domain

import "time"

// Role is the account role of a user or engineer record.
type Role string

const (
	RoleEngineer Role = "engineer"
	RoleManager  Role = "manager"
)

// Seniority is an engineer's experience tier. Display-only.
type Seniority string

const (
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
)

// Seniorities lists the known tiers in ascending order.
var Seniorities = []Seniority{SeniorityJunior, SeniorityMid, SenioritySenior}

// ValidSeniority returns true if s is a known tier.
func ValidSeniority(s Seniority) bool {
	for _, v := range Seniorities {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultMaxCapacity is the capacity assumed when the API omits maxCapacity.
const DefaultMaxCapacity = 100

// Engineer is a team member as returned by the API.
type Engineer struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Seniority    Seniority  `json:"seniority,omitempty"`
	Department   string     `json:"department,omitempty"`
	Skills       []string   `json:"skills"`
	Availability int        `json:"availability"` // percent of capacity free, 0-100
	MaxCapacity  int        `json:"maxCapacity,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// Key returns the record id.
func (e Engineer) Key() string { return e.ID }

// Capacity returns MaxCapacity, falling back to DefaultMaxCapacity.
func (e Engineer) Capacity() int {
	if e.MaxCapacity <= 0 {
		return DefaultMaxCapacity
	}
	return e.MaxCapacity
}

// Capacity is the per-engineer load breakdown from /engineers/{id}/capacity.
type Capacity struct {
	EngineerID        string `json:"engineerId"`
	TotalCapacity     int    `json:"totalCapacity"`
	UsedCapacity      int    `json:"usedCapacity"`
	AvailableCapacity int    `json:"availableCapacity"`
}

// Profile is the signed-in user's own editable record.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Seniority   Seniority `json:"seniority,omitempty"`
	Department  string    `json:"department,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	MaxCapacity int       `json:"maxCapacity,omitempty"`
}
