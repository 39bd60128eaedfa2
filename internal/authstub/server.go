package authstub

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/domain"
)

type account struct {
	Account
	hash string
}

type loginRequest struct {
	Correo   string `json:"correo"`
	Password string `json:"password"`
}

// Server stands in for the hospital backend's authentication endpoint during
// development and in tests.
type Server struct {
	accounts map[string]account
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewServer hashes the account passwords and builds the stub.
func NewServer(accounts []Account, tokens *auth.TokenManager, bcryptCost int, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{accounts: make(map[string]account, len(accounts)), tokens: tokens, logger: logger}
	for _, acc := range accounts {
		hash, err := auth.HashPassword(acc.Password, bcryptCost)
		if err != nil {
			return nil, err
		}
		s.accounts[normalizeEmail(acc.Email)] = account{Account: acc, hash: hash}
	}
	return s, nil
}

// App returns a fiber app serving POST {loginPath}.
func (s *Server) App(loginPath string) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post(loginPath, s.Login)
	return app
}

// Login checks credentials and answers 201 with a signed access token, or 401.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid payload"})
	}

	acc, ok := s.accounts[normalizeEmail(req.Correo)]
	if !ok || auth.ComparePassword(acc.hash, req.Password) != nil {
		s.logger.Info("stub login rejected", zap.String("correo", req.Correo))
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "Credenciales incorrectas"})
	}

	token, _, err := s.tokens.GenerateToken(auth.Claims{
		Subject:    domain.ID(strconv.FormatInt(acc.ID, 10)),
		Email:      acc.Email,
		Role:       acc.Role,
		DoctorID:   ref(acc.DoctorID),
		EmployeeID: ref(acc.EmployeeID),
	})
	if err != nil {
		s.logger.Error("stub token signing failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "token signing failed"})
	}

	s.logger.Info("stub login accepted", zap.String("correo", acc.Email), zap.String("rol", acc.Role))
	return c.Status(http.StatusCreated).JSON(fiber.Map{"access_token": token})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
