package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	rects  []image.Rectangle
	fn     func(img *gocv.Mat) []image.Rectangle
	err    error
	calls  int
	mu     sync.Mutex
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetRects sets the rectangles that will be returned by Detect.
func (m *MockDetector) SetRects(rects []image.Rectangle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rects = rects
}

// SetFunc makes Detect compute its result from the image it is given.
// It takes precedence over SetRects.
func (m *MockDetector) SetFunc(fn func(img *gocv.Mat) []image.Rectangle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured rectangles or error.
func (m *MockDetector) Detect(img *gocv.Mat) ([]image.Rectangle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.fn != nil {
		return m.fn(img), nil
	}
	return m.rects, nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
