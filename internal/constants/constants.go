// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face geometry constants
const (
	// FaceWidth is the canonical width of a normalized face crop in pixels
	FaceWidth = 112

	// FaceHeight is the canonical height of a normalized face crop in pixels
	FaceHeight = 92
)

// Matching constants
const (
	// GlobalSimilarityThreshold is the minimum cosine similarity any match must reach,
	// regardless of the identity's adaptive threshold
	GlobalSimilarityThreshold = 0.6

	// MarginThreshold is the best-vs-second-best similarity gap reported in diagnostics.
	// It does not gate acceptance.
	MarginThreshold = 0.02

	// AdaptiveThresholdFloor is the lowest adaptive per-identity threshold
	AdaptiveThresholdFloor = 0.5

	// AdaptiveSigmaFactor is the number of standard deviations subtracted from the
	// mean centroid similarity when computing an identity's adaptive threshold
	AdaptiveSigmaFactor = 1.5
)

// Enrollment constants
const (
	// TempEnrollmentDir is the reserved directory name used while a new identity
	// is being registered. It is never treated as an identity.
	TempEnrollmentDir = "temp_criminal"

	// DefaultEnrollmentRoot is the default directory holding one subdirectory per identity
	DefaultEnrollmentRoot = "face_samples"
)

// ImageExtensions lists the raster formats accepted from enrollment directories (lowercase, with dot).
var ImageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
}

// Detection constants
const (
	// DefaultDownscale is the factor frames are shrunk by before detection
	DefaultDownscale = 2

	// DetectionIoUThreshold is the IoU above which two detections are considered the same face
	DetectionIoUThreshold = 0.2
)

// Processing constants
const (
	// WorkerPoolSize is the default number of parallel workers for enrollment image reads
	WorkerPoolSize = 8

	// MaxUploadSize is the maximum accepted image upload size in bytes
	MaxUploadSize = 20 << 20

	// MaxImagePixels caps the declared width*height of a decoded image. Headers
	// are checked before any pixel buffer is allocated.
	MaxImagePixels = 40_000_000
)

// Diagnostics constants
const (
	// DefaultNeighbors is the default number of nearest enrollment images to report
	DefaultNeighbors = 5
)
