// Package tray provides a system tray menu for tiltcam.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

const (
	titleOverlayOn  = "● Overlay"
	titleOverlayOff = "○ Overlay"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onQuit   func()
	overlay  bool
	status   string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray with the overlay enabled.
func New() *Tray {
	return &Tray{
		overlay: true,
	}
}

// OnToggle sets the callback invoked when the overlay is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called and must be called
// from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Tiltcam")
	systray.SetTooltip("Tiltcam head tilt tracking")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.overlay), "Toggle the pose overlay")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(statusTitle(t.status), "Faces in the last frame")
	t.menuStatus.Disable()
	systray.AddSeparator()
	t.mu.Unlock()

	menuQuit := systray.AddMenuItem("Quit", "Quit Tiltcam")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips the overlay state and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.overlay = !t.overlay
	enabled := t.overlay

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the status line in the menu.
func (t *Tray) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if text == t.status {
		return
	}
	t.status = text
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(text))
	}
}

// Status returns the last status text.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// OverlayEnabled returns the current overlay state.
func (t *Tray) OverlayEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.overlay
}

func toggleTitle(enabled bool) string {
	if enabled {
		return titleOverlayOn
	}
	return titleOverlayOff
}

func statusTitle(text string) string {
	if text == "" {
		return "Last: none"
	}
	return "Last: " + text
}
