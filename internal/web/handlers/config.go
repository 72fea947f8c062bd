package handlers

import (
	"net/http"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/database"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse is the tuning in effect
type ConfigResponse struct {
	FaceWidth       int      `json:"face_width"`
	FaceHeight      int      `json:"face_height"`
	GlobalThreshold float64  `json:"global_threshold"`
	MarginThreshold float64  `json:"margin_threshold"`
	ThresholdFloor  float64  `json:"threshold_floor"`
	SigmaFactor     float64  `json:"sigma_factor"`
	Downscale       int      `json:"downscale"`
	MinFaceSize     int      `json:"min_face_size"`
	MaxFaceSize     int      `json:"max_face_size"`
	RecordsEnabled  bool     `json:"records_enabled"`
	RecordsDriver   string   `json:"records_driver,omitempty"`
	Drivers         []string `json:"drivers"`
}

// Get returns the matcher and detector tuning
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, d := h.config.Matcher, h.config.Detector

	response := ConfigResponse{
		FaceWidth:       m.Width,
		FaceHeight:      m.Height,
		GlobalThreshold: m.GlobalThreshold,
		MarginThreshold: m.MarginThreshold,
		ThresholdFloor:  m.ThresholdFloor,
		SigmaFactor:     m.SigmaFactor,
		Downscale:       d.Downscale,
		MinFaceSize:     d.MinSize,
		MaxFaceSize:     d.MaxSize,
		RecordsEnabled:  h.config.Database.Enabled(),
		Drivers:         database.Drivers(),
	}
	if response.RecordsEnabled {
		response.RecordsDriver = h.config.Database.Driver
	}

	respondJSON(w, http.StatusOK, response)
}
