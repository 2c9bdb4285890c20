package entity

// AccessLogMessageMax longitud máxima de la columna message.
const AccessLogMessageMax = 255

// AccessLog entrada append-only del registro de peticiones y decisiones.
// Date y Time se guardan en la zona horaria del sitio.
type AccessLog struct {
	ID      int64
	Date    string // YYYY-MM-DD
	Time    string // HH:MM:SS
	Message string
}
