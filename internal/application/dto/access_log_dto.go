package dto

// AccessLogResponse una entrada del registro.
type AccessLogResponse struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

// AccessLogListResponse lista paginada del registro (más reciente primero).
type AccessLogListResponse struct {
	Items []AccessLogResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
