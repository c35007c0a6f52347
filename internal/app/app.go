// Package app runs the tiltcam pipeline: read a frame, estimate face poses,
// draw the overlay and hand the result to whoever is watching.
package app

import (
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/analyzer"
	"github.com/ayusman/tiltcam/internal/capture"
	"github.com/ayusman/tiltcam/internal/log"
	"github.com/ayusman/tiltcam/internal/pose"
	"github.com/ayusman/tiltcam/internal/render"
	"github.com/ayusman/tiltcam/internal/store"
)

// MaxReadErrors is how many consecutive failed reads end the pipeline.
const MaxReadErrors = 10

// Observer receives every processed frame. The Mat is only valid for the
// duration of the call.
type Observer interface {
	OnFrame(index int, annotated *gocv.Mat, faces []pose.Face)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(index int, annotated *gocv.Mat, faces []pose.Face)

// OnFrame calls f.
func (f ObserverFunc) OnFrame(index int, annotated *gocv.Mat, faces []pose.Face) {
	f(index, annotated, faces)
}

// Config holds the collaborators of the application.
type Config struct {
	Camera   capture.Camera
	Analyzer *analyzer.Analyzer
	Renderer *render.Renderer

	// Display is optional; without one frames are not shown locally.
	Display render.Display

	// Observers are notified of every frame, in order.
	Observers []Observer

	// Store is optional; with one every frame's poses are recorded.
	Store *store.Store

	// Equalize turns on histogram equalization before detection.
	Equalize bool

	Logger *logrus.Logger
}

// App orchestrates capture, analysis, rendering and fan-out.
type App struct {
	config    Config
	log       *logrus.Logger
	observers []Observer
	overlay   bool
	session   *store.Session
	mu        sync.RWMutex
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = log.Discard()
	}
	if config.Renderer == nil {
		config.Renderer = render.NewRenderer()
	}

	return &App{
		config:    config,
		log:       logger,
		observers: append([]Observer(nil), config.Observers...),
		overlay:   true,
	}
}

// AddObserver registers o for every subsequent frame.
func (a *App) AddObserver(o Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, o)
}

// SetOverlay enables or disables drawing on frames. Analysis continues
// either way.
func (a *App) SetOverlay(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overlay = enabled
}

// OverlayEnabled returns whether overlays are currently drawn.
func (a *App) OverlayEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.overlay
}

// Session returns the recording session of the current run, or nil when
// nothing is being recorded.
func (a *App) Session() *store.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	return a.config.Camera
}

func (a *App) snapshotObservers() []Observer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Observer(nil), a.observers...)
}
