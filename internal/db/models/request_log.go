package models

// RequestLog records one proxied data-API request for operator diagnosis.
type RequestLog struct {
	ID         string `gorm:"primaryKey" json:"id"`
	Timestamp  int64  `gorm:"index" json:"timestamp"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	Error      string `json:"error,omitempty"`
}
