package detector

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"
)

// cascadeScaleImage mirrors OpenCV's CASCADE_SCALE_IMAGE flag.
const cascadeScaleImage = 2

// CascadeDetector implements Detector using an OpenCV Haar cascade.
type CascadeDetector struct {
	config     Config
	modelPath  string
	classifier gocv.CascadeClassifier
	mu         sync.Mutex
	closed     bool
}

// NewCascadeDetector resolves and loads the cascade model named in config.
// The model is loaded exactly once, here.
func NewCascadeDetector(config Config) (*CascadeDetector, error) {
	path := FindModel(config.ModelPath)
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, config.ModelPath)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("load cascade %s: invalid model", path)
	}

	return &CascadeDetector{
		config:     config,
		modelPath:  path,
		classifier: classifier,
	}, nil
}

// Detect runs the cascade over img.
func (d *CascadeDetector) Detect(img *gocv.Mat) ([]image.Rectangle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("cascade %s: detector closed", d.modelPath)
	}
	if img == nil || img.Empty() {
		return nil, nil
	}

	minSize := image.Point{X: d.config.MinSize, Y: d.config.MinSize}
	maxSize := image.Point{X: d.config.MaxSize, Y: d.config.MaxSize}

	return d.classifier.DetectMultiScaleWithParams(
		*img,
		d.config.ScaleFactor,
		d.config.MinNeighbors,
		cascadeScaleImage,
		minSize,
		maxSize,
	), nil
}

// ModelPath returns the resolved model file.
func (d *CascadeDetector) ModelPath() string {
	return d.modelPath
}

// Close releases the classifier.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.classifier.Close()
}

// FindModel searches for a cascade model file in common locations.
// It checks the name as given, then "models/", "../models", the executable
// directory and ~/.tiltcam/models.
// Returns the first existing path or empty string if none found.
func FindModel(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
		return ""
	}

	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		name,
		filepath.Join("models", name),
		filepath.Join("..", "models", name),
		filepath.Join(execDir, "models", name),
		filepath.Join(os.Getenv("HOME"), ".tiltcam", "models", name),
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
