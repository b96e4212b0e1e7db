package database

import (
	"time"

	"github.com/lib/pq"
)

type Model struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegistrationGroup is one persisted row of the range table. Rules keep
// their serialized "low-high:length" form in the order published by the
// registration authority, one array entry per rule.
type RegistrationGroup struct {
	Model

	Key    string         `json:"key" gorm:"primaryKey"`
	Prefix string         `json:"prefix"`
	Agency string         `json:"agency"`
	Rules  pq.StringArray `json:"rules" gorm:"type:text[]"`
}

type Synchronization struct {
	Date     time.Time `gorm:"primaryKey;type:timestamptz"`
	Serial   string    // serial of the range message seen during this sync, e.g.: "8df27e0a"
	Complete bool
}
