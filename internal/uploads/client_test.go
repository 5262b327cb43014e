package uploads_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FieldTrace/FT-Backend/internal/config"
	"github.com/FieldTrace/FT-Backend/internal/uploads"
)

// disabledConfig returns a config with no storage endpoint, leaving the
// uploads module disabled after Init.
func disabledConfig() config.Config {
	cfg := config.Defaults()
	cfg.Storage.Endpoint = ""
	return cfg
}

// TestUploadHandlerWithoutStorage verifies the endpoint reports 503 when no
// object storage is configured instead of failing obscurely.
func TestUploadHandlerWithoutStorage(t *testing.T) {
	uploads.Init(disabledConfig())

	req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
	rec := httptest.NewRecorder()
	uploads.UploadHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with storage disabled, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not configured") {
		t.Errorf("expected a 'not configured' message, got: %q", rec.Body.String())
	}
}

// TestPutAndFetchReportDisabledStorage verifies the client functions return the
// sentinel error when storage is disabled, so callers can map it to 503.
func TestPutAndFetchReportDisabledStorage(t *testing.T) {
	uploads.Init(disabledConfig())

	if uploads.Enabled() {
		t.Fatal("expected uploads disabled with an empty endpoint")
	}

	_, err := uploads.Put(context.Background(), "k", strings.NewReader("x"), 1, "text/plain")
	if !errors.Is(err, uploads.ErrStorageDisabled) {
		t.Errorf("Put: expected ErrStorageDisabled, got %v", err)
	}

	_, err = uploads.Fetch(context.Background(), "k")
	if !errors.Is(err, uploads.ErrStorageDisabled) {
		t.Errorf("Fetch: expected ErrStorageDisabled, got %v", err)
	}
}

// TestURLForPrefersPublicURL verifies staged objects are addressed through the
// configured public URL, with trailing slashes normalized away.
func TestURLForPrefersPublicURL(t *testing.T) {
	cfg := disabledConfig()
	cfg.Storage.PublicURL = "https://cdn.example.com/stage/"
	uploads.Init(cfg)

	got := uploads.URLFor("abc_hydrants.kml")
	want := "https://cdn.example.com/stage/abc_hydrants.kml"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestRatePerMinuteFollowsConfig verifies the shared upload/import rate budget
// comes from the configuration.
func TestRatePerMinuteFollowsConfig(t *testing.T) {
	cfg := disabledConfig()
	cfg.Uploads.RatePerMin = 12
	uploads.Init(cfg)

	if got := uploads.RatePerMinute(); got != 12 {
		t.Errorf("expected configured rate 12, got %d", got)
	}
}
