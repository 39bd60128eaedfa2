package dto

import (
	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/domain"
)

// LoginRequest payload, accepted as JSON or as a form post.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserResponse is the identity as shown in the console chrome.
type UserResponse struct {
	ID         domain.ID   `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Initial    string      `json:"initial"`
	Role       domain.Role `json:"role"`
	RoleLabel  string      `json:"role_label"`
	DoctorID   *domain.ID  `json:"medico_id"`
	EmployeeID *domain.ID  `json:"empleado_id"`
}

// NewUserResponse maps an identity for display.
func NewUserResponse(identity *domain.Identity) UserResponse {
	return UserResponse{
		ID:         identity.SubjectID,
		Name:       identity.DisplayName,
		Email:      identity.Email,
		Initial:    identity.Initial(),
		Role:       identity.Role,
		RoleLabel:  identity.Role.Label(),
		DoctorID:   identity.DoctorRef,
		EmployeeID: identity.EmployeeRef,
	}
}

// LoginResponse is returned when the signed-in role has no landing screen.
type LoginResponse struct {
	User     UserResponse `json:"user"`
	Redirect string       `json:"redirect,omitempty"`
}

// ScreenResponse is the shell every console screen is rendered into.
type ScreenResponse struct {
	Screen   string          `json:"screen"`
	Path     string          `json:"path"`
	Title    string          `json:"title"`
	Greeting string          `json:"greeting,omitempty"`
	User     *UserResponse   `json:"user,omitempty"`
	Menu     []auth.MenuItem `json:"menu,omitempty"`
}
