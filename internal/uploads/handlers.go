package uploads

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/FieldTrace/FT-Backend/internal/utils"
)

// allowedExtensions covers the geometry formats the importer understands,
// including shapefile sidecar files.
var allowedExtensions = map[string]bool{
	".kml":     true,
	".geojson": true,
	".json":    true,
	".shp":     true,
	".shx":     true,
	".dbf":     true,
	".prj":     true,
	".cpg":     true,
}

var (
	maxUploadBytes int64 = 25 << 20
	ratePerMinute  int   = 30
)

// UploadHandler stages one file in object storage and returns its key and URL.
// Multi-file shapefiles call this once per part.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !Enabled() {
		http.Error(w, "File storage not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "File exceeds the upload size limit", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Expected a single 'file' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		http.Error(w, "Unsupported file type: "+header.Filename, http.StatusUnsupportedMediaType)
		return
	}

	key := utils.GenerateUUID() + "_" + filepath.Base(header.Filename)
	url, err := Put(r.Context(), key, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "Failed to store file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"key":  key,
		"url":  url,
		"size": header.Size,
	})
}
