package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Role is the console role carried by an identity.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// RoleClaimDoctor is the backend's spelling of the doctor role.
const RoleClaimDoctor = "medico"

// RoleFromClaim maps the backend role claim onto a console role. Unknown
// values pass through unchanged.
func RoleFromClaim(claim string) Role {
	if claim == RoleClaimDoctor {
		return RoleDoctor
	}
	return Role(claim)
}

// Label is the human-readable role shown next to the user name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleDoctor:
		return "Doctor"
	default:
		return "User"
	}
}

// ID is an identifier as issued by the backend. The backend emits numbers,
// but strings are accepted and kept verbatim.
type ID string

// UnmarshalJSON accepts JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as JSON numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

// Empty reports whether the id is absent in the falsy sense the backend uses.
func (id ID) Empty() bool {
	if id == "" {
		return true
	}
	if id.isNumeric() {
		f, _ := strconv.ParseFloat(string(id), 64)
		return f == 0
	}
	return false
}

func (id ID) isNumeric() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseFloat(string(id), 64)
	return err == nil && json.Valid([]byte(id))
}

// Identity is the decoded representation of an authenticated principal. It is
// persisted under the "user" storage key.
type Identity struct {
	SubjectID   ID     `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DoctorRef   *ID    `json:"medico_id"`
	EmployeeRef *ID    `json:"empleado_id"`
}

// Initial is the avatar letter for the identity.
func (i Identity) Initial() string {
	for _, r := range i.DisplayName {
		return strings.ToUpper(string(r))
	}
	return ""
}
