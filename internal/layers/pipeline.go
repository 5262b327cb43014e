package layers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"

	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/geometry"
)

var (
	ErrMalformedInput   = errors.New("features payload is not valid GeoJSON")
	ErrDuplicateName    = errors.New("layer name already in use")
	ErrAlreadyCompleted = errors.New("assignment already completed")
	ErrAlreadyAssigned  = errors.New("feature already assigned")
)

// ImportInput carries everything one creation pipeline run needs.
type ImportInput struct {
	Name            string
	LabelField      string
	DispatcherID    string
	DefaultSurveyID *uuid.UUID
	SourceFiles     []string
	Features        []*geojson.Feature
}

// ParseFeatures decodes the raw features field of a create request. An empty
// string is a valid empty layer; anything else must parse as GeoJSON.
func ParseFeatures(text string) ([]*geojson.Feature, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	feats, err := geometry.ParseGeoJSON([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return feats, nil
}

// Create persists a layer and one feature row per input feature in a single
// transaction: either the layer and all its features exist afterwards, or
// nothing does. Concurrent creates with the same name race on the unique name
// index and the second writer gets ErrDuplicateName.
func Create(in ImportInput) (*Layer, error) {
	if in.Name == "" || in.LabelField == "" {
		return nil, fmt.Errorf("%w: name and label field are required", ErrMalformedInput)
	}

	layer := &Layer{
		Name:            in.Name,
		LabelField:      in.LabelField,
		DispatcherID:    in.DispatcherID,
		DefaultSurveyID: in.DefaultSurveyID,
		SourceFiles:     in.SourceFiles,
		FeatureCount:    len(in.Features),
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Raw table reference; importing surveys here would cycle.
		if in.DefaultSurveyID != nil {
			var n int64
			if err := tx.Table("surveys.surveys").Where("id = ?", *in.DefaultSurveyID).Count(&n).Error; err != nil {
				return fmt.Errorf("check default survey: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("%w: default survey %s does not exist", ErrMalformedInput, *in.DefaultSurveyID)
			}
		}

		if err := tx.Create(layer).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateName
			}
			return fmt.Errorf("insert layer: %w", err)
		}

		if err := tx.Create(&LayerAdmin{LayerID: layer.ID, UserID: in.DispatcherID}).Error; err != nil {
			return fmt.Errorf("link dispatcher: %w", err)
		}

		if len(in.Features) == 0 {
			return nil
		}

		rows := make([]Feature, 0, len(in.Features))
		for _, f := range in.Features {
			label := geometry.NormalizeFeature(f, in.LabelField)
			raw, err := json.Marshal(f)
			if err != nil {
				return fmt.Errorf("encode feature: %w", err)
			}
			rows = append(rows, Feature{
				LayerID: layer.ID,
				Label:   label,
				GeoJSON: db.JSONB(raw),
			})
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert features: %w", err)
		}

		layer.Features = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	return layer, nil
}

// PartitionAssignments splits a surveyor's assignments into not-yet-completed
// and completed sets, preserving input order. The map view renders the two
// sets differently.
func PartitionAssignments(assignments []Assignment) (todo, completed []Assignment) {
	for _, a := range assignments {
		if a.Completed {
			completed = append(completed, a)
		} else {
			todo = append(todo, a)
		}
	}
	return todo, completed
}
