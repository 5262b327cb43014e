package layers

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/FieldTrace/FT-Backend/internal/db"
)

// Layer is a named set of geographic features imported in one pipeline run.
// Layers are never edited after creation, only read or extended with
// field-added points.
type Layer struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	LabelField      string         `gorm:"not null" json:"label_field"`
	DispatcherID    string         `gorm:"not null;index" json:"dispatcher_id"`
	DefaultSurveyID *uuid.UUID     `gorm:"type:uuid" json:"default_survey_id,omitempty"`
	SourceFiles     pq.StringArray `gorm:"type:text[]" json:"source_files,omitempty"`
	FeatureCount    int            `gorm:"default:0" json:"feature_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Features []Feature    `gorm:"foreignKey:LayerID" json:"features,omitempty"`
	Admins   []LayerAdmin `gorm:"foreignKey:LayerID" json:"admins,omitempty"`
}

func (Layer) TableName() string {
	return "atlas.layers"
}

// LayerAdmin links a layer to a user allowed to manage it. The dispatcher is
// added on creation; further admins can be attached later.
type LayerAdmin struct {
	LayerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"layer_id"`
	UserID  string    `gorm:"primaryKey" json:"user_id"`
}

func (LayerAdmin) TableName() string {
	return "atlas.layer_admins"
}

// Feature is one persisted geometry plus properties record. Label is derived
// from the layer's label field at import time and never recomputed.
type Feature struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	LayerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"layer_id"`
	Label      string    `json:"label"`
	FieldAdded bool      `gorm:"default:false" json:"field_added"`
	GeoJSON    db.JSONB  `gorm:"type:jsonb" json:"geojson"`
	CreatedAt  time.Time `json:"created_at"`

	Layer      Layer       `gorm:"foreignKey:LayerID" json:"-"`
	Assignment *Assignment `gorm:"foreignKey:FeatureID" json:"assignment,omitempty"`
}

func (Feature) TableName() string {
	return "atlas.features"
}

// Assignment tasks a surveyor with one feature. The unique index on FeatureID
// keeps the relationship one-to-one; a feature without an assignment row is
// simply unassigned. Completed flips false to true exactly once.
type Assignment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	FeatureID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"feature_id"`
	AssigneeID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"assignee_id"`
	SurveyID    *uuid.UUID      `gorm:"type:uuid" json:"survey_id,omitempty"`
	Completed   bool            `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Coordinates pq.Float64Array `gorm:"type:float8[]" json:"coordinates,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Feature Feature `gorm:"foreignKey:FeatureID" json:"feature,omitempty"`
}

func (Assignment) TableName() string {
	return "atlas.assignments"
}
