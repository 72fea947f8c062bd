package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
)

func TestNewConfigHandler(t *testing.T) {
	cfg := &config.Config{}

	handler := NewConfigHandler(cfg)

	if handler == nil {
		t.Fatal("expected non-nil handler")
		return
	}
	if handler.config != cfg {
		t.Error("expected handler to hold reference to config")
	}
}

func TestConfigHandler_Get_ReturnsTuning(t *testing.T) {
	cfg := &config.Config{
		Matcher: config.MatcherConfig{
			Width:           112,
			Height:          92,
			GlobalThreshold: 0.6,
			MarginThreshold: 0.02,
			ThresholdFloor:  0.5,
			SigmaFactor:     1.5,
		},
		Detector: config.DetectorConfig{Downscale: 2, MinSize: 20, MaxSize: 1000},
	}
	handler := NewConfigHandler(cfg)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var result ConfigResponse
	parseJSONResponse(t, recorder, &result)

	if result.FaceWidth != 112 || result.FaceHeight != 92 {
		t.Errorf("expected face size 112x92, got %dx%d", result.FaceWidth, result.FaceHeight)
	}
	if result.GlobalThreshold != 0.6 {
		t.Errorf("expected global threshold 0.6, got %v", result.GlobalThreshold)
	}
	if result.SigmaFactor != 1.5 {
		t.Errorf("expected sigma factor 1.5, got %v", result.SigmaFactor)
	}
	if result.Downscale != 2 {
		t.Errorf("expected downscale 2, got %d", result.Downscale)
	}
	if result.RecordsEnabled {
		t.Error("expected records to be disabled without a database URL")
	}
	if result.RecordsDriver != "" {
		t.Errorf("expected no driver, got %q", result.RecordsDriver)
	}
}

func TestConfigHandler_Get_RecordsEnabled(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "mysql", URL: "cfis:secret@tcp(db:3306)/cfis"},
	}
	handler := NewConfigHandler(cfg)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	var result ConfigResponse
	parseJSONResponse(t, recorder, &result)

	if !result.RecordsEnabled {
		t.Error("expected records to be enabled")
	}
	if result.RecordsDriver != "mysql" {
		t.Errorf("expected driver 'mysql', got %q", result.RecordsDriver)
	}
}
