package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/pkg/jwt"
)

// AdminConfig identidad única del operador. Si PasswordHash está vacío se hashea Password al construir.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// UseCase emisión y validación de la credencial de sesión.
type UseCase struct {
	username string
	hash     []byte
	jwtCfg   JWTConfig
	clock    func() time.Time
}

// NewUseCase valida la configuración y conserva solo el hash bcrypt de la contraseña.
func NewUseCase(admin AdminConfig, jwtCfg JWTConfig) (*UseCase, error) {
	if admin.Username == "" {
		return nil, errors.New("auth: usuario administrador vacío")
	}
	if jwtCfg.Secret == "" {
		return nil, errors.New("auth: JWT secret vacío")
	}
	if jwtCfg.TTL <= 0 {
		return nil, errors.New("auth: duración del token debe ser positiva")
	}

	var hash []byte
	switch {
	case admin.PasswordHash != "":
		if _, err := bcrypt.Cost([]byte(admin.PasswordHash)); err != nil {
			return nil, fmt.Errorf("auth: ADMIN_PASSWORD_HASH inválido: %w", err)
		}
		hash = []byte(admin.PasswordHash)
	case admin.Password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash de contraseña: %w", err)
		}
		hash = h
	default:
		return nil, errors.New("auth: contraseña de administrador vacía")
	}

	return &UseCase{username: admin.Username, hash: hash, jwtCfg: jwtCfg, clock: time.Now}, nil
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.clock = now
	return uc
}

// Authenticate verifica usuario/contraseña y emite un token. Cualquier discrepancia devuelve
// domain.ErrInvalidCredentials sin distinguir el campo.
func (uc *UseCase) Authenticate(username, password string) (*dto.TokenResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(uc.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(uc.hash, []byte(password))
	if !userOK || passErr != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.username, uc.jwtCfg.Issuer, uc.jwtCfg.TTL, uc.clock())
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   jwt.TokenType,
		ExpiresIn:   int(uc.jwtCfg.TTL / time.Second),
	}, nil
}

// Authorize valida firma, algoritmo, expiración y que el subject sea el administrador.
// Devuelve el subject o domain.ErrInvalidToken.
func (uc *UseCase) Authorize(token string) (string, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token, uc.clock())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if subtle.ConstantTimeCompare([]byte(claims.Subject), []byte(uc.username)) != 1 {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
