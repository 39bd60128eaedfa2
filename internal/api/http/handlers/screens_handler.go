package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medicity-console/internal/api/dto"
	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/session"
	apperrors "github.com/spec-kit/medicity-console/pkg/util"
)

type screen struct {
	name  string
	title string
}

var screens = map[string]screen{
	auth.AdminRootPath:      {name: "dashboard", title: "Dashboard"},
	auth.EmployeesPath:      {name: "employees", title: "Employees"},
	auth.SpecialtiesPath:    {name: "specialties", title: "Specialties"},
	auth.AppointmentsPath:   {name: "appointments", title: "Appointments"},
	auth.MedicalCentersPath: {name: "medical-centers", title: "Medical centers"},
	auth.DoctorsPath:        {name: "doctors", title: "Doctors"},
	auth.ReportsPath:        {name: "reports", title: "Reports"},
}

// ScreensHandler renders the console shell for screens the guard admitted.
type ScreensHandler struct {
	routes auth.RoleRouteMap
}

// NewScreensHandler constructs handler.
func NewScreensHandler(routes auth.RoleRouteMap) *ScreensHandler {
	return &ScreensHandler{routes: routes}
}

// Render handles GET on every console screen.
func (h *ScreensHandler) Render(c *fiber.Ctx) error {
	identity := session.IdentityFromContext(c)
	if identity == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	path := auth.NormalizePath(c.Path())
	info, ok := screens[path]
	if !ok {
		name := strings.TrimPrefix(path, auth.AdminRootPath+"/")
		info = screen{name: name, title: name}
	}

	user := dto.NewUserResponse(identity)
	resp := dto.ScreenResponse{
		Screen: info.name,
		Path:   path,
		Title:  info.title,
		User:   &user,
		Menu:   auth.MenuFor(identity.Role, h.routes),
	}
	if path == auth.AdminRootPath {
		resp.Greeting = "Welcome, " + identity.DisplayName
	}
	return c.JSON(fiber.Map{"data": resp})
}
