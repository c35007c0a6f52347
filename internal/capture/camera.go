// Package capture provides the frame source: camera devices, video files
// and streams read through GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrSourceExhausted is returned once the source has no more frames.
	ErrSourceExhausted = errors.New("frame source exhausted")
)

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
	Source() string
}

// cameraImpl manages video capture from a device, file or stream using GoCV.
type cameraImpl struct {
	source   string
	deviceID int
	isDevice bool
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewCamera creates a new Camera for source. A numeric source is a device
// id; anything else is handed to OpenCV as a file path or stream URL.
func NewCamera(source string) Camera {
	c := &cameraImpl{
		source:  source,
		fps:     DefaultFPS,
		running: false,
		capture: nil,
	}
	if id, err := strconv.Atoi(source); err == nil {
		c.deviceID = id
		c.isDevice = true
	}
	return c
}

// Open opens the source for capturing frames.
// Devices are set to 640x480 for performance.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	var device interface{} = c.source
	if c.isDevice {
		device = c.deviceID
	}

	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return fmt.Errorf("open source %q: %w", c.source, err)
	}

	if c.isDevice {
		capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
		capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
		capture.Set(gocv.VideoCaptureFPS, float64(c.fps))
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame blocks until the next frame is available.
// A failed read or an empty frame means the source has ended.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrSourceExhausted
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// Source returns the device id or path the camera was created with.
func (c *cameraImpl) Source() string {
	return c.source
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
