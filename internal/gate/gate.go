// Package gate decides which affordances a viewer gets on a record. The
// functions are pure; callers pass the signed-in user explicitly.
package gate

import (
	"strings"

	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/domain"
)

// Permissions is a set of affordances.
type Permissions uint8

const (
	View Permissions = 1 << iota
	Edit
	Delete

	None Permissions = 0
	All              = View | Edit | Delete
)

// Has reports whether every bit of q is set in p.
func (p Permissions) Has(q Permissions) bool { return p&q == q }

func (p Permissions) String() string {
	if p == None {
		return "none"
	}
	var parts []string
	if p.Has(View) {
		parts = append(parts, "view")
	}
	if p.Has(Edit) {
		parts = append(parts, "edit")
	}
	if p.Has(Delete) {
		parts = append(parts, "delete")
	}
	return strings.Join(parts, "+")
}

// Assignment returns the permissions u has on a. Managers get everything;
// the assigned engineer gets a read-only view; anyone else gets nothing.
func Assignment(u session.User, a domain.Assignment) Permissions {
	switch v := u.(type) {
	case session.Manager:
		return All
	case session.Engineer:
		if v.ID != "" && a.EngineerID == v.ID {
			return View
		}
	}
	return None
}

// Engineer returns the permissions u has on an engineer record. Profile
// edits go through the profile screen, not this record.
func Engineer(u session.User, e domain.Engineer) Permissions {
	switch v := u.(type) {
	case session.Manager:
		return View | Delete
	case session.Engineer:
		if v.ID != "" && e.ID == v.ID {
			return View
		}
	}
	return None
}

// Project returns the permissions u has on a project.
func Project(u session.User, _ domain.Project) Permissions {
	switch u.(type) {
	case session.Manager:
		return View | Delete
	case session.Engineer:
		return View
	}
	return None
}

// CanCreate reports whether u may create engineers, projects or assignments.
func CanCreate(u session.User) bool {
	return session.IsManager(u)
}
