package layers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"

	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/geometry"
	"github.com/FieldTrace/FT-Backend/internal/surveyors"
	"github.com/FieldTrace/FT-Backend/internal/uploads"
	"github.com/FieldTrace/FT-Backend/internal/utils"
)

// ListLayers returns all layers without their features
func ListLayers(w http.ResponseWriter, r *http.Request) {
	var list []Layer

	if err := db.DB.Order("created_at ASC").Find(&list).Error; err != nil {
		http.Error(w, "Failed to fetch layers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// GetLayer returns a single layer with its features and their assignments
func GetLayer(w http.ResponseWriter, r *http.Request) {
	layerID := chi.URLParam(r, "layer_id")

	var layer Layer
	err := db.DB.
		Preload("Features", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Features.Assignment").
		First(&layer, "id = ?", layerID).Error
	if err != nil {
		http.Error(w, "Layer not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(layer)
}

// CreateLayer runs the creation pipeline on a form-encoded request carrying
// the features JSON inline (admin only). An empty features field creates an
// empty layer for later field-added points.
func CreateLayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	input := ImportInput{
		Name:         r.FormValue("name"),
		LabelField:   r.FormValue("field"),
		DispatcherID: userID,
	}

	if raw := r.FormValue("surveyId"); raw != "" {
		surveyID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid surveyId", http.StatusBadRequest)
			return
		}
		input.DefaultSurveyID = &surveyID
	}

	feats, err := ParseFeatures(r.FormValue("features"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input.Features = feats

	layer, err := Create(input)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	log.Printf("Created layer %q with %d features", layer.Name, layer.FeatureCount)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(layer)
}

// ImportLayer runs the creation pipeline on geometry files previously staged
// through the upload endpoint (admin only). Multi-part shapefiles arrive as
// several keys in one request.
func ImportLayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	var req struct {
		Name       string   `json:"name"`
		Field      string   `json:"field"`
		SurveyID   *string  `json:"survey_id,omitempty"`
		UploadKeys []string `json:"upload_keys"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.UploadKeys) == 0 {
		http.Error(w, "upload_keys is required", http.StatusBadRequest)
		return
	}

	input := ImportInput{
		Name:         req.Name,
		LabelField:   req.Field,
		DispatcherID: userID,
		SourceFiles:  req.UploadKeys,
	}

	if req.SurveyID != nil && *req.SurveyID != "" {
		surveyID, err := uuid.Parse(*req.SurveyID)
		if err != nil {
			http.Error(w, "Invalid survey_id", http.StatusBadRequest)
			return
		}
		input.DefaultSurveyID = &surveyID
	}

	files := make([]geometry.File, 0, len(req.UploadKeys))
	for _, key := range req.UploadKeys {
		data, err := uploads.Fetch(r.Context(), key)
		if err != nil {
			if errors.Is(err, uploads.ErrStorageDisabled) {
				http.Error(w, "File storage not configured", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "Failed to fetch staged file "+key+": "+err.Error(), http.StatusBadGateway)
			return
		}
		files = append(files, geometry.File{Name: filepath.Base(key), Data: data})
	}

	feats, err := geometry.Load(files)
	if err != nil {
		if errors.Is(err, geometry.ErrUnsupportedFormat) {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}
		http.Error(w, "Failed to parse geometry: "+err.Error(), http.StatusBadRequest)
		return
	}
	input.Features = feats

	layer, err := Create(input)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	log.Printf("Imported layer %q from %d staged files (%d features)",
		layer.Name, len(req.UploadKeys), layer.FeatureCount)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(layer)
}

// GetLayerMap returns the requesting surveyor's assignments in a layer, split
// into todo and completed sets for differential rendering.
func GetLayerMap(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	surveyor, err := surveyors.ForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Not enrolled as a surveyor", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to resolve surveyor: "+err.Error(), http.StatusInternalServerError)
		return
	}

	layerID := chi.URLParam(r, "layer_id")

	var layer Layer
	if err := db.DB.First(&layer, "id = ?", layerID).Error; err != nil {
		http.Error(w, "Layer not found", http.StatusNotFound)
		return
	}

	var assignments []Assignment
	err = db.DB.
		Preload("Feature").
		Joins("JOIN atlas.features f ON f.id = assignments.feature_id").
		Where("f.layer_id = ? AND assignments.assignee_id = ?", layer.ID, surveyor.ID).
		Order("assignments.created_at ASC").
		Find(&assignments).Error
	if err != nil {
		http.Error(w, "Failed to fetch assignments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	todo, completed := PartitionAssignments(assignments)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"layer":                 layer,
		"todo_assignments":      todo,
		"completed_assignments": completed,
	})
}

// AddPoint creates a feature at the submitted map-center coordinates plus an
// assignment for the submitting surveyor, atomically. This is the crosshair
// add-point flow used in the field.
func AddPoint(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	surveyor, err := surveyors.ForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Not enrolled as a surveyor", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to resolve surveyor: "+err.Error(), http.StatusInternalServerError)
		return
	}

	layerID := chi.URLParam(r, "layer_id")

	var layer Layer
	if err := db.DB.First(&layer, "id = ?", layerID).Error; err != nil {
		http.Error(w, "Layer not found", http.StatusNotFound)
		return
	}

	var req struct {
		Lng float64 `json:"lng"`
		Lat float64 `json:"lat"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Lng < -180 || req.Lng > 180 || req.Lat < -90 || req.Lat > 90 {
		http.Error(w, "Coordinates out of range", http.StatusBadRequest)
		return
	}

	point := geojson.NewFeature(orb.Point{req.Lng, req.Lat})
	raw, err := json.Marshal(point)
	if err != nil {
		http.Error(w, "Failed to encode point: "+err.Error(), http.StatusInternalServerError)
		return
	}

	feature := Feature{
		LayerID:    layer.ID,
		FieldAdded: true,
		GeoJSON:    db.JSONB(raw),
	}
	assignment := Assignment{
		AssigneeID:  surveyor.ID,
		SurveyID:    layer.DefaultSurveyID,
		Coordinates: pq.Float64Array{req.Lng, req.Lat},
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&feature).Error; err != nil {
			return err
		}
		assignment.FeatureID = feature.ID
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		return tx.Model(&Layer{}).Where("id = ?", layer.ID).
			UpdateColumn("feature_count", gorm.Expr("feature_count + 1")).Error
	})
	if err != nil {
		http.Error(w, "Failed to create point: "+err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("Surveyor %s added a point to layer %q at (%f, %f)",
		surveyor.ID, layer.Name, req.Lng, req.Lat)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"feature":    feature,
		"assignment": assignment,
	})
}

// AssignFeatures bulk-creates assignments for a surveyor (admin only). With no
// explicit feature_ids every unassigned feature in the layer is taken. The
// whole batch succeeds or fails together.
func AssignFeatures(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	layerID := chi.URLParam(r, "layer_id")

	var layer Layer
	if err := db.DB.First(&layer, "id = ?", layerID).Error; err != nil {
		http.Error(w, "Layer not found", http.StatusNotFound)
		return
	}

	if !isLayerAdmin(layer.ID, userID) {
		http.Error(w, "Not an admin of this layer", http.StatusForbidden)
		return
	}

	var req struct {
		SurveyorID string   `json:"surveyor_id"`
		SurveyID   *string  `json:"survey_id,omitempty"`
		FeatureIDs []string `json:"feature_ids,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	surveyorID, err := uuid.Parse(req.SurveyorID)
	if err != nil {
		http.Error(w, "Invalid surveyor_id", http.StatusBadRequest)
		return
	}
	var surveyor surveyors.Surveyor
	if err := db.DB.First(&surveyor, "id = ?", surveyorID).Error; err != nil {
		http.Error(w, "Surveyor not found", http.StatusNotFound)
		return
	}

	surveyID := layer.DefaultSurveyID
	if req.SurveyID != nil && *req.SurveyID != "" {
		parsed, err := uuid.Parse(*req.SurveyID)
		if err != nil {
			http.Error(w, "Invalid survey_id", http.StatusBadRequest)
			return
		}
		var n int64
		if err := db.DB.Table("surveys.surveys").Where("id = ?", parsed).Count(&n).Error; err != nil {
			http.Error(w, "Failed to check survey: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if n == 0 {
			http.Error(w, "Survey not found", http.StatusNotFound)
			return
		}
		surveyID = &parsed
	}

	var featureIDs []uuid.UUID
	if len(req.FeatureIDs) > 0 {
		for _, raw := range req.FeatureIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Invalid feature id: "+raw, http.StatusBadRequest)
				return
			}
			featureIDs = append(featureIDs, id)
		}
	} else {
		// Every feature in the layer that has no assignment yet
		err := db.DB.Model(&Feature{}).
			Joins("LEFT JOIN atlas.assignments a ON a.feature_id = features.id").
			Where("features.layer_id = ? AND a.id IS NULL", layer.ID).
			Pluck("features.id", &featureIDs).Error
		if err != nil {
			http.Error(w, "Failed to find unassigned features: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if len(featureIDs) == 0 {
		http.Error(w, "No features to assign", http.StatusBadRequest)
		return
	}

	assignments := make([]Assignment, 0, len(featureIDs))
	for _, fid := range featureIDs {
		assignments = append(assignments, Assignment{
			FeatureID:  fid,
			AssigneeID: surveyor.ID,
			SurveyID:   surveyID,
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Feature{}).
			Where("layer_id = ? AND id IN ?", layer.ID, featureIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(featureIDs)) {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Create(&assignments).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return ErrAlreadyAssigned
			}
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyAssigned):
			http.Error(w, "One or more features are already assigned", http.StatusConflict)
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "One or more features do not belong to this layer", http.StatusBadRequest)
		default:
			http.Error(w, "Failed to create assignments: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	log.Printf("Assigned %d features in layer %q to surveyor %s",
		len(assignments), layer.Name, surveyor.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(assignments)
}

// DeleteLayer removes a layer with its features and assignments (admin only)
func DeleteLayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	layerID := chi.URLParam(r, "layer_id")

	var layer Layer
	if err := db.DB.First(&layer, "id = ?", layerID).Error; err != nil {
		http.Error(w, "Layer not found", http.StatusNotFound)
		return
	}

	if !isLayerAdmin(layer.ID, userID) {
		http.Error(w, "Not an admin of this layer", http.StatusForbidden)
		return
	}

	tx := db.DB.Begin()

	// Delete assignments first
	if err := tx.Exec(`
		DELETE FROM atlas.assignments
		WHERE feature_id IN (SELECT id FROM atlas.features WHERE layer_id = ?)
	`, layer.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete assignments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Delete features
	if err := tx.Delete(&Feature{}, "layer_id = ?", layer.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete features: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Delete admin links
	if err := tx.Delete(&LayerAdmin{}, "layer_id = ?", layer.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete layer admins: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Delete layer
	if err := tx.Delete(&Layer{}, "id = ?", layer.ID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Failed to delete layer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to commit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isLayerAdmin(layerID uuid.UUID, userID string) bool {
	var count int64
	db.DB.Model(&LayerAdmin{}).
		Where("layer_id = ? AND user_id = ?", layerID, userID).
		Count(&count)
	return count > 0
}

func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicateName):
		http.Error(w, "A layer with that name already exists", http.StatusConflict)
	case errors.Is(err, ErrMalformedInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Failed to create layer: "+err.Error(), http.StatusInternalServerError)
	}
}
