package render

import (
	"sync"

	"gocv.io/x/gocv"
)

// Key codes that close the window.
const (
	keyEsc = 27
	keyQ   = 'q'
)

// Display shows annotated frames.
type Display interface {
	// Show displays img and reports whether the user asked to quit.
	Show(img *gocv.Mat) (quit bool)
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	name   string
	window *gocv.Window
	mu     sync.Mutex
}

// NewWindow opens a window titled name.
func NewWindow(name string) *Window {
	return &Window{
		name:   name,
		window: gocv.NewWindow(name),
	}
}

// Show displays img and polls the keyboard once.
func (w *Window) Show(img *gocv.Mat) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil || img == nil || img.Empty() {
		return false
	}

	w.window.IMShow(*img)
	return isQuitKey(w.window.WaitKey(1))
}

// Close destroys the window.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}

func isQuitKey(key int) bool {
	return key == keyEsc || key == keyQ
}
