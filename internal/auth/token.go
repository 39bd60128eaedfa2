package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/medicity-console/internal/domain"
)

// ErrMalformedToken is returned when a bearer token's payload cannot be read
// into an identity.
var ErrMalformedToken = errors.New("malformed token")

// Claims describes the payload the hospital backend puts in its access tokens.
type Claims struct {
	Subject    domain.ID        `json:"sub"`
	Email      string           `json:"correo"`
	Role       string           `json:"rol"`
	DoctorID   *domain.ID       `json:"medico_id,omitempty"`
	EmployeeID *domain.ID       `json:"empleado_id,omitempty"`
	ExpiresAt  *jwt.NumericDate `json:"exp,omitempty"`
	IssuedAt   *jwt.NumericDate `json:"iat,omitempty"`
}

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *Claims) GetIssuer() (string, error)                   { return "", nil }
func (c *Claims) GetSubject() (string, error)                  { return c.Subject.String(), nil }
func (c *Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

var unverifiedParser = jwt.NewParser()

// DecodeIdentity reads the identity out of a bearer token. The signature is NOT
// verified: the console trusts the token as issued by the backend, which checks
// it on every API call. Any signature check belongs here.
func DecodeIdentity(token string) (*domain.Identity, error) {
	claims := &Claims{}
	if _, _, err := unverifiedParser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformedToken)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing rol claim", ErrMalformedToken)
	}

	return &domain.Identity{
		SubjectID:   claims.Subject,
		DisplayName: claims.Email,
		Email:       claims.Email,
		Role:        domain.RoleFromClaim(claims.Role),
		DoctorRef:   presentRef(claims.DoctorID),
		EmployeeRef: presentRef(claims.EmployeeID),
	}, nil
}

func presentRef(id *domain.ID) *domain.ID {
	if id == nil || id.Empty() {
		return nil
	}
	ref := *id
	return &ref
}

// TokenManager issues and validates HS256 tokens in the backend's claim layout.
// Only the development authentication stub signs tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// GenerateToken signs the claims, stamping issue and expiry times.
func (tm *TokenManager) GenerateToken(claims Claims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
