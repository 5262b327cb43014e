package mapstate

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/FieldTrace/FT-Backend/internal/config"
	"github.com/FieldTrace/FT-Backend/internal/utils"
)

var (
	store    *Store
	defaults config.MapConfig
)

// Init wires the Redis store and remembers the configured map defaults. An
// empty Redis URL leaves server-side view-state persistence off.
func Init(cfg config.Config) {
	defaults = cfg.Map

	if cfg.Redis.URL == "" {
		log.Println("Map state module running without persistence (no Redis URL configured)")
		return
	}

	s, err := NewStore(cfg.Redis.URL)
	if err != nil {
		log.Fatal("Failed to connect map session store: ", err)
	}
	store = s

	log.Println("Map state module initialized")
}

// GetMapSession returns this login's saved map session, or the configured
// defaults when nothing is saved yet. The client restores its camera from
// this after returning from a completed survey.
func GetMapSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Session ID not found in context", http.StatusInternalServerError)
		return
	}

	if store != nil {
		ms, err := store.Load(r.Context(), sessionID)
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"saved":      true,
				"view_state": ms.ViewState,
				"basemap":    ms.Basemap,
				"task":       ms.Task,
				"saved_at":   ms.SavedAt,
			})
			return
		}
		if !errors.Is(err, ErrNoSession) {
			http.Error(w, "Failed to load map session: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"saved": false,
		"view_state": ViewState{
			Center: [2]float64{defaults.Center.Lng, defaults.Center.Lat},
			Zoom:   defaults.Zoom,
		},
		"basemap": defaults.Basemap,
	})
}

// SaveMapSession merges the submitted fields into the saved map session, so a
// camera update does not wipe the task name and vice versa
func SaveMapSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Session ID not found in context", http.StatusInternalServerError)
		return
	}

	if store == nil {
		http.Error(w, "Map session persistence not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		ViewState *ViewState `json:"view_state,omitempty"`
		Basemap   *string    `json:"basemap,omitempty"`
		Task      *string    `json:"task,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Basemap != nil && !ValidBasemap(*req.Basemap) {
		http.Error(w, "Unknown basemap", http.StatusBadRequest)
		return
	}

	ms, err := store.Load(r.Context(), sessionID)
	if err != nil && !errors.Is(err, ErrNoSession) {
		http.Error(w, "Failed to load map session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if req.ViewState != nil {
		ms.ViewState = req.ViewState
	}
	if req.Basemap != nil {
		ms.Basemap = *req.Basemap
	}
	if req.Task != nil {
		ms.Task = *req.Task
	}

	if err := store.Save(r.Context(), sessionID, ms); err != nil {
		http.Error(w, "Failed to save map session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ms)
}

// ClearMapSession drops the saved map session
func ClearMapSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Session ID not found in context", http.StatusInternalServerError)
		return
	}

	if store != nil {
		if err := store.Clear(r.Context(), sessionID); err != nil {
			http.Error(w, "Failed to clear map session: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
