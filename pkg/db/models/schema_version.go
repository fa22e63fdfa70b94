package models

import "time"

// SchemaVersion marks the installed schema revision.
type SchemaVersion struct {
	Version   int       `gorm:"column:version;primaryKey"`
	AppliedAt time.Time `gorm:"column:applied_at;autoCreateTime"`
}

func (SchemaVersion) TableName() string { return "db_version" }
