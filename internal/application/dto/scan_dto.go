package dto

// Estados posibles de un escaneo.
const (
	ScanStatusUnrecognized = "unrecognized"
	ScanStatusDenied       = "denied"
	ScanStatusGranted      = "granted"
)

// ScanResponse resultado de un escaneo. Siempre 200: un badge desconocido no es un error.
type ScanResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Identifier    string `json:"identifier,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
	CurrentTime   string `json:"current_time,omitempty"`
	AllowedWindow string `json:"allowed_window,omitempty"`
}
