package model

// SubmissionLog listener 寫入成功後送出的副本
type SubmissionLog struct {
	Key         string            `bson:"key" json:"key"`
	Fields      map[string]string `bson:"fields" json:"fields"`
	ProjectName string            `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Version     string            `bson:"version,omitempty" json:"version,omitempty"`
	LoggedAt    string            `bson:"logged_at" json:"logged_at"`
}
