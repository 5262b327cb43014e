package surveyors

import (
	"time"

	"github.com/google/uuid"
)

// Surveyor is a field user enrolled for assignment work. Enrollment is an
// admin action; the profile links back to the auth user that logs in.
type Surveyor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Admins []SurveyorAdmin `gorm:"foreignKey:SurveyorID" json:"admins,omitempty"`
}

func (Surveyor) TableName() string {
	return "field.surveyors"
}

// SurveyorAdmin links a surveyor to an admin who manages them. The enrolling
// admin is linked automatically; more can be attached later.
type SurveyorAdmin struct {
	SurveyorID uuid.UUID `gorm:"type:uuid;primaryKey" json:"surveyor_id"`
	AdminID    string    `gorm:"primaryKey" json:"admin_id"`
}

func (SurveyorAdmin) TableName() string {
	return "field.surveyor_admins"
}
