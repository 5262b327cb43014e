package surveyors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FieldTrace/FT-Backend/internal/auth"
	"github.com/FieldTrace/FT-Backend/internal/db"
	"github.com/FieldTrace/FT-Backend/internal/utils"
)

// ForUser resolves the surveyor profile behind an authenticated user ID.
// Callers treat gorm.ErrRecordNotFound as "not enrolled".
func ForUser(userID string) (*Surveyor, error) {
	var surveyor Surveyor
	if err := db.DB.First(&surveyor, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &surveyor, nil
}

// EnrollSurveyor creates a surveyor profile for an existing user and links the
// enrolling admin as its manager (admin only)
func EnrollSurveyor(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	var req struct {
		UserID string `json:"user_id"`
		Phone  string `json:"phone,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var user auth.User
	if err := db.DB.First(&user, "user_id = ?", req.UserID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	surveyor := Surveyor{UserID: req.UserID, Phone: req.Phone, Active: true}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&surveyor).Error; err != nil {
			return err
		}
		return tx.Create(&SurveyorAdmin{SurveyorID: surveyor.ID, AdminID: adminID}).Error
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			http.Error(w, "User is already enrolled as a surveyor", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to enroll surveyor: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(surveyor)
}

// ListSurveyors returns the surveyors managed by the requesting admin
func ListSurveyors(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	var surveyors []Surveyor
	err := db.DB.
		Joins("JOIN field.surveyor_admins sa ON sa.surveyor_id = surveyors.id").
		Where("sa.admin_id = ?", adminID).
		Order("surveyors.created_at ASC").
		Find(&surveyors).Error
	if err != nil {
		http.Error(w, "Failed to fetch surveyors: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(surveyors)
}

// GetMySurveyor returns the requesting user's own surveyor profile
func GetMySurveyor(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	surveyor, err := ForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Not enrolled as a surveyor", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch surveyor: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(surveyor)
}

// AddSurveyorAdmin links another admin to an existing surveyor (admin only)
func AddSurveyorAdmin(w http.ResponseWriter, r *http.Request) {
	surveyorID, err := uuid.Parse(chi.URLParam(r, "surveyor_id"))
	if err != nil {
		http.Error(w, "Invalid surveyor id", http.StatusBadRequest)
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var surveyor Surveyor
	if err := db.DB.First(&surveyor, "id = ?", surveyorID).Error; err != nil {
		http.Error(w, "Surveyor not found", http.StatusNotFound)
		return
	}

	var admin auth.User
	if err := db.DB.First(&admin, "user_id = ?", req.UserID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	link := SurveyorAdmin{SurveyorID: surveyorID, AdminID: req.UserID}
	if err := db.DB.Create(&link).Error; err != nil {
		if db.IsUniqueViolation(err) {
			http.Error(w, "Admin already linked to this surveyor", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to link admin: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(link)
}

// RemoveSurveyorAdmin unlinks an admin from a surveyor (admin only)
func RemoveSurveyorAdmin(w http.ResponseWriter, r *http.Request) {
	surveyorID, err := uuid.Parse(chi.URLParam(r, "surveyor_id"))
	if err != nil {
		http.Error(w, "Invalid surveyor id", http.StatusBadRequest)
		return
	}
	adminID := chi.URLParam(r, "admin_id")

	result := db.DB.Where("surveyor_id = ? AND admin_id = ?", surveyorID, adminID).Delete(&SurveyorAdmin{})
	if result.Error != nil {
		http.Error(w, "Failed to unlink admin: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Admin link not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeactivateSurveyor marks a surveyor inactive without deleting history (admin only)
func DeactivateSurveyor(w http.ResponseWriter, r *http.Request) {
	surveyorID := chi.URLParam(r, "surveyor_id")

	var surveyor Surveyor
	if err := db.DB.First(&surveyor, "id = ?", surveyorID).Error; err != nil {
		http.Error(w, "Surveyor not found", http.StatusNotFound)
		return
	}

	if err := db.DB.Model(&surveyor).Update("active", false).Error; err != nil {
		http.Error(w, "Failed to deactivate surveyor: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
