package auth

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/medicity-console/internal/domain"
)

// Console paths.
const (
	LoginPath          = "/login"
	AdminRootPath      = "/admin"
	EmployeesPath      = "/admin/employees"
	SpecialtiesPath    = "/admin/specialties"
	AppointmentsPath   = "/admin/appointments"
	MedicalCentersPath = "/admin/medical-centers"
	DoctorsPath        = "/admin/doctors"
	ReportsPath        = "/admin/reports"
)

// RoleRouteMap lists, per role, the ordered paths that role may reach. The first
// entry is where a role lands when it asks for a path it may not see.
type RoleRouteMap map[domain.Role][]string

// DefaultRoleRoutes returns the built-in role-route map.
func DefaultRoleRoutes() RoleRouteMap {
	return RoleRouteMap{
		domain.RoleAdmin: {
			AdminRootPath,
			EmployeesPath,
			SpecialtiesPath,
			AppointmentsPath,
			MedicalCentersPath,
			DoctorsPath,
			ReportsPath,
		},
		domain.RoleDoctor: {
			AppointmentsPath,
			SpecialtiesPath,
			MedicalCentersPath,
			ReportsPath,
		},
	}
}

// Permitted returns a copy of the role's path list; unknown roles get none.
func (m RoleRouteMap) Permitted(role domain.Role) []string {
	return slices.Clone(m[role])
}

// Allows reports whether role may reach path.
func (m RoleRouteMap) Allows(role domain.Role, path string) bool {
	return slices.Contains(m[role], path)
}

// Paths returns every path reachable by some role, in first-seen order with
// admin first.
func (m RoleRouteMap) Paths() []string {
	roles := make([]domain.Role, 0, len(m))
	for role := range m {
		roles = append(roles, role)
	}
	slices.SortFunc(roles, func(a, b domain.Role) int {
		switch {
		case a == b:
			return 0
		case a == domain.RoleAdmin:
			return -1
		case b == domain.RoleAdmin:
			return 1
		}
		return strings.Compare(string(a), string(b))
	})

	var paths []string
	for _, role := range roles {
		for _, path := range m[role] {
			if !slices.Contains(paths, path) {
				paths = append(paths, path)
			}
		}
	}
	return paths
}

// DefaultRoute is where a role lands right after logging in. Roles without a
// landing screen get an empty string.
func DefaultRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return AdminRootPath
	case domain.RoleDoctor:
		return AppointmentsPath
	default:
		return ""
	}
}

type roleRoutesFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadRoleRoutes reads a role-route map from a YAML file of the form
//
//	roles:
//	  admin: [/admin, /admin/reports]
//	  doctor: [/admin/reports]
func LoadRoleRoutes(path string) (RoleRouteMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role routes: %w", err)
	}
	return ParseRoleRoutes(raw)
}

// ParseRoleRoutes decodes a YAML role-route map.
func ParseRoleRoutes(raw []byte) (RoleRouteMap, error) {
	var file roleRoutesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode role routes: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("role routes: no roles defined")
	}

	routes := make(RoleRouteMap, len(file.Roles))
	for role, paths := range file.Roles {
		for _, path := range paths {
			if !strings.HasPrefix(path, "/") {
				return nil, fmt.Errorf("role routes: %s: path %q must be absolute", role, path)
			}
			if path == LoginPath {
				return nil, fmt.Errorf("role routes: %s: the login path cannot be guarded", role)
			}
		}
		routes[domain.RoleFromClaim(role)] = slices.Clone(paths)
	}
	return routes, nil
}
