package domain

import (
	"gorm.io/datatypes"
)

// Profile is a user's saved wizard state
type Profile struct {
	BaseModel
	Name string         `gorm:"type:varchar(200);not null" json:"name"`
	Data datatypes.JSON `gorm:"type:json" json:"data,omitempty"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// ProfileSummary is the directory view of a profile
type ProfileSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProfileData is the persisted wizard payload
type ProfileData struct {
	Rows       []FieldSpec `json:"rows"`
	RowCount   int         `json:"rowCount"`
	Format     string      `json:"format"`
	LineEnding string      `json:"lineEnding"`
}
