package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("badge no encontrado")
	ErrDuplicateIdentifier = errors.New("badge ya registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidRole         = errors.New("rol desconocido")
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrInvalidToken        = errors.New("token inválido o expirado")
)
