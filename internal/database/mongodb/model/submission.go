package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Submission struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Key      string             `json:"key" bson:"key"`           // log document 的 timestamp key
	Fields   map[string]string  `json:"fields" bson:"fields"`     // 表單欄位
	Source   string             `json:"source" bson:"source"`     // 服務名稱
	StoredAt time.Time          `json:"storedAt" bson:"storedAt"` // 寫入 MongoDB 的時間
}
