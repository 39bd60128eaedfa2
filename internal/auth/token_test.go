package auth

import (
	"encoding/base64"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/medicity-console/internal/domain"
)

func signMap(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeIdentityDoctor(t *testing.T) {
	token := signMap(t, jwt.MapClaims{"sub": 7, "correo": "a@b.com", "rol": "medico"})

	identity, err := DecodeIdentity(token)
	require.NoError(t, err)

	assert.Equal(t, domain.ID("7"), identity.SubjectID)
	assert.Equal(t, domain.RoleDoctor, identity.Role)
	assert.Equal(t, "a@b.com", identity.DisplayName)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.Nil(t, identity.DoctorRef)
	assert.Nil(t, identity.EmployeeRef)
}

func TestDecodeIdentityReferences(t *testing.T) {
	token := signMap(t, jwt.MapClaims{
		"sub":         12,
		"correo":      "doc@medicity.test",
		"rol":         "medico",
		"medico_id":   31,
		"empleado_id": "E-4",
	})

	identity, err := DecodeIdentity(token)
	require.NoError(t, err)

	require.NotNil(t, identity.DoctorRef)
	assert.Equal(t, domain.ID("31"), *identity.DoctorRef)
	require.NotNil(t, identity.EmployeeRef)
	assert.Equal(t, domain.ID("E-4"), *identity.EmployeeRef)
}

func TestDecodeIdentityFalsyReferencesAreAbsent(t *testing.T) {
	token := signMap(t, jwt.MapClaims{"sub": 3, "correo": "x@y.z", "rol": "admin", "medico_id": 0, "empleado_id": ""})

	identity, err := DecodeIdentity(token)
	require.NoError(t, err)
	assert.Nil(t, identity.DoctorRef)
	assert.Nil(t, identity.EmployeeRef)
}

func TestDecodeIdentityPassesUnknownRoles(t *testing.T) {
	token := signMap(t, jwt.MapClaims{"sub": "u-1", "correo": "n@m.o", "rol": "enfermero"})

	identity, err := DecodeIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Role("enfermero"), identity.Role)
	assert.Equal(t, domain.ID("u-1"), identity.SubjectID)
}

func TestDecodeIdentityIgnoresSignature(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 1, "correo": "a@b.c", "rol": "admin"}).
		SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = DecodeIdentity(token)
	assert.NoError(t, err)
}

func TestDecodeIdentityMalformed(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "opaque-token"},
		{name: "payload not base64", token: header + ".***.sig"},
		{name: "payload not json", token: header + "." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".sig"},
		{name: "missing role", token: signMap(t, jwt.MapClaims{"sub": 1, "correo": "a@b.c"})},
		{name: "missing subject", token: signMap(t, jwt.MapClaims{"correo": "a@b.c", "rol": "admin"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := DecodeIdentity(tt.token)
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("stub-secret", 5)
	doctor := domain.ID("31")

	token, exp, err := tm.GenerateToken(Claims{Subject: "12", Email: "doc@medicity.test", Role: "medico", DoctorID: &doctor})
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.ID("12"), claims.Subject)
	assert.Equal(t, "medico", claims.Role)

	_, err = NewTokenManager("other", 5).ParseToken(token)
	assert.Error(t, err)

	identity, err := DecodeIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, identity.Role)
	require.NotNil(t, identity.DoctorRef)
	assert.Equal(t, doctor, *identity.DoctorRef)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
