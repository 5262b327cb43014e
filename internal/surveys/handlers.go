package surveys

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/layers"
	"github.com/FieldTrace/FT-Backend/internal/surveyors"
	"github.com/FieldTrace/FT-Backend/internal/utils"
)

// ListSurveys returns all survey definitions
func ListSurveys(w http.ResponseWriter, r *http.Request) {
	var surveys []Survey

	if err := db.DB.Order("created_at ASC").Find(&surveys).Error; err != nil {
		http.Error(w, "Failed to fetch surveys: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(surveys)
}

// GetSurvey returns a single survey by ID
func GetSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "survey_id")

	var survey Survey
	if err := db.DB.First(&survey, "id = ?", surveyID).Error; err != nil {
		http.Error(w, "Survey not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(survey)
}

// CreateSurvey creates a new survey definition (admin only)
func CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var survey Survey
	if err := json.NewDecoder(r.Body).Decode(&survey); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if survey.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	if err := db.DB.Create(&survey).Error; err != nil {
		if db.IsUniqueViolation(err) {
			http.Error(w, "A survey with that name already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create survey: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(survey)
}

// UpdateSurvey updates a survey's name or schema (admin only)
func UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "survey_id")

	var survey Survey
	if err := db.DB.First(&survey, "id = ?", surveyID).Error; err != nil {
		http.Error(w, "Survey not found", http.StatusNotFound)
		return
	}

	var updates struct {
		Name   *string   `json:"name,omitempty"`
		Schema *db.JSONB `json:"schema,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updateMap := make(map[string]interface{})
	if updates.Name != nil {
		updateMap["name"] = *updates.Name
	}
	if updates.Schema != nil {
		updateMap["schema"] = *updates.Schema
	}

	if err := db.DB.Model(&survey).Updates(updateMap).Error; err != nil {
		if db.IsUniqueViolation(err) {
			http.Error(w, "A survey with that name already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to update survey: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(survey)
}

// DeleteSurvey deletes a survey definition (admin only)
func DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID := chi.URLParam(r, "survey_id")

	if err := db.DB.Delete(&Survey{}, "id = ?", surveyID).Error; err != nil {
		http.Error(w, "Failed to delete survey: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitResponse records a survey response and completes its assignment in one
// transaction. Completion is one-way: a second submission for the same
// assignment is rejected with a conflict.
func SubmitResponse(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		AssignmentID string          `json:"assignment_id"`
		Responses    json.RawMessage `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	assignmentID, err := uuid.Parse(req.AssignmentID)
	if err != nil {
		http.Error(w, "Invalid assignment_id", http.StatusBadRequest)
		return
	}

	var assignment layers.Assignment
	if err := db.DB.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}
	if assignment.AssigneeID != surveyor.ID {
		http.Error(w, "Assignment belongs to another surveyor", http.StatusForbidden)
		return
	}

	now := time.Now()
	response := SurveyResponse{
		AssignmentID: assignment.ID,
		SurveyID:     assignment.SurveyID,
		SurveyorID:   surveyor.ID,
		Payload:      db.JSONB(req.Responses),
		SubmittedAt:  now,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		// Guarded update: only an uncompleted assignment can flip, so the
		// transition happens at most once even under concurrent submissions
		res := tx.Model(&layers.Assignment{}).
			Where("id = ? AND completed = false", assignment.ID).
			Updates(map[string]interface{}{"completed": true, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return layers.ErrAlreadyCompleted
		}

		return tx.Create(&response).Error
	})
	if err != nil {
		if errors.Is(err, layers.ErrAlreadyCompleted) || db.IsUniqueViolation(err) {
			http.Error(w, "Assignment is already completed", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to submit response: "+err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("Surveyor %s completed assignment %s", surveyor.ID, assignment.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"response_id":   response.ID,
		"assignment_id": assignment.ID,
		"completed":     true,
		"completed_at":  now,
	})
}

// ListResponses returns submitted responses with optional filtering (admin only)
func ListResponses(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Model(&SurveyResponse{})

	if surveyID := r.URL.Query().Get("survey_id"); surveyID != "" {
		query = query.Where("survey_id = ?", surveyID)
	}
	if assignmentID := r.URL.Query().Get("assignment_id"); assignmentID != "" {
		query = query.Where("assignment_id = ?", assignmentID)
	}
	if surveyorID := r.URL.Query().Get("surveyor_id"); surveyorID != "" {
		query = query.Where("surveyor_id = ?", surveyorID)
	}

	var responses []SurveyResponse
	if err := query.Order("submitted_at ASC").Find(&responses).Error; err != nil {
		http.Error(w, "Failed to fetch responses: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}
