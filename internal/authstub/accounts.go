package authstub

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/medicity-console/internal/domain"
)

// Account is a backend user the stub accepts. Password is plaintext in the
// accounts file and hashed when the server is built.
type Account struct {
	ID         int64  `yaml:"id"`
	Email      string `yaml:"correo"`
	Password   string `yaml:"password"`
	Role       string `yaml:"rol"`
	DoctorID   int64  `yaml:"medico_id"`
	EmployeeID int64  `yaml:"empleado_id"`
}

type accountsFile struct {
	Accounts []Account `yaml:"accounts"`
}

// DefaultAccounts returns one administrator and one doctor.
func DefaultAccounts() []Account {
	return []Account{
		{ID: 1, Email: "admin@medicity.test", Password: "admin123", Role: string(domain.RoleAdmin), EmployeeID: 1},
		{ID: 2, Email: "doctor@medicity.test", Password: "doctor123", Role: domain.RoleClaimDoctor, DoctorID: 7},
	}
}

// LoadAccounts reads accounts from a YAML file of the form
//
//	accounts:
//	  - id: 1
//	    correo: admin@medicity.test
//	    password: admin123
//	    rol: admin
func LoadAccounts(path string) ([]Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	return ParseAccounts(raw)
}

// ParseAccounts decodes and checks a YAML account list.
func ParseAccounts(raw []byte) ([]Account, error) {
	var file accountsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	if len(file.Accounts) == 0 {
		return nil, fmt.Errorf("accounts: none defined")
	}

	seen := make(map[string]struct{}, len(file.Accounts))
	for i, acc := range file.Accounts {
		email := strings.ToLower(strings.TrimSpace(acc.Email))
		switch {
		case acc.ID <= 0:
			return nil, fmt.Errorf("accounts[%d]: id must be positive", i)
		case email == "":
			return nil, fmt.Errorf("accounts[%d]: correo required", i)
		case acc.Password == "":
			return nil, fmt.Errorf("accounts[%d]: password required", i)
		case acc.Role == "":
			return nil, fmt.Errorf("accounts[%d]: rol required", i)
		}
		if _, dup := seen[email]; dup {
			return nil, fmt.Errorf("accounts[%d]: duplicate correo %s", i, email)
		}
		seen[email] = struct{}{}
	}
	return file.Accounts, nil
}

func ref(id int64) *domain.ID {
	if id <= 0 {
		return nil
	}
	v := domain.ID(strconv.FormatInt(id, 10))
	return &v
}
