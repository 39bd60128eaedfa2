package auth

import (
	"slices"

	"github.com/spec-kit/medicity-console/internal/domain"
)

// MenuItem is one sidebar entry.
type MenuItem struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	roles []domain.Role
}

var sidebar = []MenuItem{
	{Path: AppointmentsPath, Title: "Manage appointments", roles: []domain.Role{domain.RoleAdmin, domain.RoleDoctor}},
	{Path: SpecialtiesPath, Title: "Specialties", roles: []domain.Role{domain.RoleAdmin, domain.RoleDoctor}},
	{Path: ReportsPath, Title: "Reports", roles: []domain.Role{domain.RoleAdmin, domain.RoleDoctor}},
}

// MenuFor returns the sidebar entries shown to role. Entries the route map does
// not let the role reach are dropped.
func MenuFor(role domain.Role, routes RoleRouteMap) []MenuItem {
	items := make([]MenuItem, 0, len(sidebar))
	for _, item := range sidebar {
		if slices.Contains(item.roles, role) && routes.Allows(role, item.Path) {
			items = append(items, item)
		}
	}
	return items
}
