// Package detector provides region detectors that report axis-aligned
// bounding boxes for an object class (faces, eyes) in a grayscale image.
package detector

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// ErrModelNotFound is returned when a cascade model file cannot be located.
var ErrModelNotFound = errors.New("cascade model not found")

// Default model files, as shipped with OpenCV.
const (
	FaceModel = "haarcascade_frontalface_alt.xml"
	EyeModel  = "haarcascade_eye.xml"
)

// Detector defines the interface for region detection implementations.
type Detector interface {
	// Detect returns the bounding boxes found in img, in img's coordinates.
	// Order is implementation-defined and boxes may overlap.
	// Returns an empty slice if nothing is detected.
	Detect(img *gocv.Mat) ([]image.Rectangle, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds tuning options for a cascade detector.
type Config struct {
	// ModelPath is the cascade XML file. Relative paths are searched for in
	// the usual model directories.
	ModelPath string

	// ScaleFactor is the image pyramid step (default: 1.1).
	ScaleFactor float64

	// MinNeighbors is how many overlapping hits a candidate needs to be kept (default: 2).
	MinNeighbors int

	// MinSize is the smallest detectable square edge in pixels (default: 30).
	MinSize int

	// MaxSize is the largest detectable square edge in pixels; 0 means unbounded.
	MaxSize int
}

// DefaultFaceConfig returns a Config for frontal face detection.
func DefaultFaceConfig() Config {
	return Config{
		ModelPath:    FaceModel,
		ScaleFactor:  1.1,
		MinNeighbors: 2,
		MinSize:      30,
	}
}

// DefaultEyeConfig returns a Config for eye detection.
func DefaultEyeConfig() Config {
	return Config{
		ModelPath:    EyeModel,
		ScaleFactor:  1.1,
		MinNeighbors: 2,
		MinSize:      30,
	}
}
