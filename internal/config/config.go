package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/constants"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Enrollment EnrollmentConfig
	Matcher    MatcherConfig   `yaml:"matcher"`
	Detector   DetectorConfig  `yaml:"detector"`
	Database   DatabaseConfig
	Web        WebConfig
	Workers    int    // parallel enrollment image reads
	LogLevel   string // logrus level name
}

type EnrollmentConfig struct {
	Root    string // directory with one subdirectory per identity
	TempDir string // reserved in-progress registration directory name
}

type MatcherConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	GlobalThreshold float64 `yaml:"global_threshold"`
	MarginThreshold float64 `yaml:"margin_threshold"`
	ThresholdFloor  float64 `yaml:"threshold_floor"`
	SigmaFactor     float64 `yaml:"sigma_factor"`
}

// DetectorConfig is passed explicitly to the detector at construction.
type DetectorConfig struct {
	CascadePath      string  `yaml:"-"`
	Downscale        int     `yaml:"downscale"`
	MinSize          int     `yaml:"min_size"`
	MaxSize          int     `yaml:"max_size"`
	ShiftFactor      float64 `yaml:"shift_factor"`
	ScaleFactor      float64 `yaml:"scale_factor"`
	IoUThreshold     float64 `yaml:"iou_threshold"`
	QualityThreshold float32 `yaml:"quality_threshold"`
}

type DatabaseConfig struct {
	Driver       string        // mysql or postgres
	URL          string        // DSN for the record store
	MaxOpenConns int           // Maximum open connections (default 10)
	MaxIdleConns int           // Maximum idle connections (default 2)
	CacheTTL     time.Duration // record lookup cache lifetime (0 disables)
}

// Enabled reports whether a record store is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // CORS origins besides localhost
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a non-negative float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

// envString returns the env var or the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envDuration parses a Go duration string (e.g. "5m").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d
	}
	return defaultVal
}

// defaults decodes the embedded tuning file.
func defaults() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return cfg
}

func Load() *Config {
	cfg := defaults()

	m := &cfg.Matcher
	m.Width = envInt("FACE_WIDTH", m.Width)
	m.Height = envInt("FACE_HEIGHT", m.Height)
	m.GlobalThreshold = envFloat("MATCH_GLOBAL_THRESHOLD", m.GlobalThreshold)
	m.MarginThreshold = envFloat("MATCH_MARGIN_THRESHOLD", m.MarginThreshold)
	m.ThresholdFloor = envFloat("MATCH_THRESHOLD_FLOOR", m.ThresholdFloor)
	m.SigmaFactor = envFloat("MATCH_SIGMA_FACTOR", m.SigmaFactor)

	d := &cfg.Detector
	d.CascadePath = os.Getenv("PIGO_CASCADE_PATH")
	d.Downscale = envInt("DETECTOR_DOWNSCALE", d.Downscale)
	d.MinSize = envInt("DETECTOR_MIN_SIZE", d.MinSize)
	d.MaxSize = envInt("DETECTOR_MAX_SIZE", d.MaxSize)
	d.QualityThreshold = float32(envFloat("DETECTOR_QUALITY_THRESHOLD", float64(d.QualityThreshold)))

	cfg.Enrollment = EnrollmentConfig{
		Root:    envString("FACE_SAMPLES_DIR", constants.DefaultEnrollmentRoot),
		TempDir: constants.TempEnrollmentDir,
	}
	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(envString("RECORDS_DRIVER", "mysql")),
		URL:          os.Getenv("RECORDS_DATABASE_URL"),
		MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
		MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 2),
		CacheTTL:     envDuration("RECORDS_CACHE_TTL", 5*time.Minute),
	}
	cfg.Web = WebConfig{
		Host: envString("WEB_HOST", "0.0.0.0"),
		Port: envInt("WEB_PORT", 8080),
	}
	if origins := os.Getenv("WEB_ALLOWED_ORIGINS"); origins != "" {
		cfg.Web.AllowedOrigins = strings.Split(origins, ",")
	}
	cfg.Workers = envInt("GALLERY_WORKERS", constants.WorkerPoolSize)
	cfg.LogLevel = envString("LOG_LEVEL", "info")

	return &cfg
}
