package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rfid-access-api/internal/application/auth"
	"github.com/jhoicas/rfid-access-api/internal/domain"
	pkgjwt "github.com/jhoicas/rfid-access-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "rfid-access-api-test"
)

var issuedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T) *auth.UseCase {
	t.Helper()
	uc, err := auth.NewUseCase(
		auth.AdminConfig{Username: "admin", Password: "s3cr3t"},
		auth.JWTConfig{Secret: testSecret, TTL: 4 * time.Hour, Issuer: testIssuer},
	)
	require.NoError(t, err)
	return uc.WithClock(func() time.Time { return issuedAt })
}

func TestAuthenticate(t *testing.T) {
	uc := newUseCase(t)

	tok, err := uc.Authenticate("admin", "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, 4*3600, tok.ExpiresIn)
	assert.NotEmpty(t, tok.AccessToken)

	_, err = uc.Authenticate("admin", "otra")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Authenticate("root", "s3cr3t")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Authenticate("", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthorize_LimiteDeExpiracion(t *testing.T) {
	uc := newUseCase(t)
	tok, err := uc.Authenticate("admin", "s3cr3t")
	require.NoError(t, err)

	uc.WithClock(func() time.Time { return issuedAt.Add(3*time.Hour + 59*time.Minute) })
	sub, err := uc.Authorize(tok.AccessToken)
	require.NoError(t, err, "válido a T+3h59m")
	assert.Equal(t, "admin", sub)

	uc.WithClock(func() time.Time { return issuedAt.Add(4*time.Hour + time.Second) })
	_, err = uc.Authorize(tok.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "inválido a T+4h00m01s")
}

func TestAuthorize_SubjectDistinto(t *testing.T) {
	uc := newUseCase(t)
	tok, err := pkgjwt.Generate(testSecret, "intruso", testIssuer, time.Hour, issuedAt)
	require.NoError(t, err)

	_, err = uc.Authorize(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthorize_FirmaInvalida(t *testing.T) {
	uc := newUseCase(t)
	tok, err := pkgjwt.Generate("otro-secret", "admin", testIssuer, time.Hour, issuedAt)
	require.NoError(t, err)

	_, err = uc.Authorize(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = uc.Authorize("no-es-un-jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestNewUseCase_ConHashPrecalculado(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("desde-hash"), bcrypt.MinCost)
	require.NoError(t, err)

	uc, err := auth.NewUseCase(
		auth.AdminConfig{Username: "admin", Password: "ignorada", PasswordHash: string(hash)},
		auth.JWTConfig{Secret: testSecret, TTL: time.Hour},
	)
	require.NoError(t, err)

	_, err = uc.Authenticate("admin", "desde-hash")
	assert.NoError(t, err)
	_, err = uc.Authenticate("admin", "ignorada")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestNewUseCase_ConfiguracionInvalida(t *testing.T) {
	jwtCfg := auth.JWTConfig{Secret: testSecret, TTL: time.Hour}
	_, err := auth.NewUseCase(auth.AdminConfig{Password: "x"}, jwtCfg)
	assert.Error(t, err)
	_, err = auth.NewUseCase(auth.AdminConfig{Username: "admin"}, jwtCfg)
	assert.Error(t, err)
	_, err = auth.NewUseCase(auth.AdminConfig{Username: "admin", PasswordHash: "no-bcrypt"}, jwtCfg)
	assert.Error(t, err)
	_, err = auth.NewUseCase(auth.AdminConfig{Username: "admin", Password: "x"}, auth.JWTConfig{TTL: time.Hour})
	assert.Error(t, err)
	_, err = auth.NewUseCase(auth.AdminConfig{Username: "admin", Password: "x"}, auth.JWTConfig{Secret: testSecret})
	assert.Error(t, err)
}
