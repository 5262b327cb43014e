package surveys

import (
	"time"

	"github.com/google/uuid"

	"github.com/FieldTrace/FT-Backend/internal/db"
)

// Survey is a form definition presented to a surveyor when completing an
// assignment. Schema holds the question list as JSON.
type Survey struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Schema    db.JSONB  `gorm:"type:jsonb" json:"schema"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Survey) TableName() string {
	return "surveys.surveys"
}

// SurveyResponse is one submitted answer set, recorded at the moment its
// assignment is completed. The unique index on AssignmentID backstops the
// one-way completion guard.
type SurveyResponse struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	AssignmentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"assignment_id"`
	SurveyID     *uuid.UUID `gorm:"type:uuid;index" json:"survey_id,omitempty"`
	SurveyorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"surveyor_id"`
	Payload      db.JSONB   `gorm:"type:jsonb" json:"payload"`
	SubmittedAt  time.Time  `json:"submitted_at"`
}

func (SurveyResponse) TableName() string {
	return "surveys.survey_responses"
}
