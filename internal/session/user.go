// Package session resolves the signed-in user from locally stored session state.
package session

import "github.com/naveenspark/roster/pkg/domain"

// User is the signed-in viewer. It is a closed union: the only
// implementations are Manager and Engineer.
type User interface {
	UserID() string
	DisplayName() string
	Role() domain.Role
	sealed()
}

// Manager is a viewer with the manager role.
type Manager struct {
	ID   string
	Name string
}

func (m Manager) UserID() string      { return m.ID }
func (m Manager) DisplayName() string { return m.Name }
func (Manager) Role() domain.Role     { return domain.RoleManager }
func (Manager) sealed()               {}

// Engineer is a viewer with the engineer role.
type Engineer struct {
	ID   string
	Name string
}

func (e Engineer) UserID() string      { return e.ID }
func (e Engineer) DisplayName() string { return e.Name }
func (Engineer) Role() domain.Role     { return domain.RoleEngineer }
func (Engineer) sealed()               {}

// IsManager reports whether u is a Manager. A nil user is not.
func IsManager(u User) bool {
	_, ok := u.(Manager)
	return ok
}

// NewUser builds the variant matching role. Unknown roles yield false.
func NewUser(id, name string, role domain.Role) (User, bool) {
	if id == "" {
		return nil, false
	}
	switch role {
	case domain.RoleManager:
		return Manager{ID: id, Name: name}, true
	case domain.RoleEngineer:
		return Engineer{ID: id, Name: name}, true
	}
	return nil, false
}
