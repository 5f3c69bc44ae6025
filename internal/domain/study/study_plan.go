package study

import (
	"time"

	"gorm.io/datatypes"
)

// StudyPlan is a stored plan row. Plan holds the contract-formatted text
// verbatim; Progress is an opaque client-owned JSON blob.
type StudyPlan struct {
	ID        string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID    string         `gorm:"type:varchar(128);index" json:"user_id,omitempty"`
	Title     string         `gorm:"type:text" json:"title"`
	Goal      string         `gorm:"type:text" json:"goal"`
	Days      int            `gorm:"not null;default:30" json:"days"`
	StartDate string         `gorm:"type:varchar(64)" json:"start_date"`
	Plan      string         `gorm:"type:text;not null" json:"plan"`
	Progress  datatypes.JSON `gorm:"column:progress" json:"progress"`
	Feedback  *string        `gorm:"type:text" json:"feedback"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudyPlan) TableName() string { return "study_plan" }
