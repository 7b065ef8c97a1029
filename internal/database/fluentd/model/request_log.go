package model

// RequestLog gateway 每個請求的存取紀錄
type RequestLog struct {
	RequestID   string `bson:"request_id" json:"request_id"`
	Path        string `bson:"path" json:"path"`
	Method      string `bson:"method" json:"method"`
	Status      int    `bson:"status" json:"status"`
	ProjectName string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	BodyBytes   int64  `bson:"body_bytes,omitempty" json:"body_bytes,omitempty"`
	IPHash      string `bson:"ip_hash,omitempty" json:"ip_hash,omitempty"`
	UserAgent   string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Version     string `bson:"version,omitempty" json:"version,omitempty"`
	RequestTS   string `bson:"request_ts" json:"request_ts"`
	LoggedAt    string `bson:"logged_at" json:"logged_at"`
}
