// Package hook runs external executables with the faces of analyzed frames.
//
// Each hook lives in its own directory under the hooks directory and is
// described by a hook.json manifest. The hook receives a Request as JSON on
// stdin and answers with a Response on stdout.
package hook

import (
	"encoding/json"

	"github.com/ayusman/tiltcam/internal/pose"
)

// Event names what happened in a frame.
type Event string

const (
	// EventFaces fires for frames with at least one face.
	EventFaces Event = "faces"
	// EventNoFaces fires for frames without faces.
	EventNoFaces Event = "no_faces"
)

// EventFor classifies a frame by its faces.
func EventFor(faces []pose.Face) Event {
	if len(faces) == 0 {
		return EventNoFaces
	}
	return EventFaces
}

// Manifest describes a hook's metadata and subscriptions.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []Event         `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Subscribed reports whether the hook wants e. No events means all.
func (m Manifest) Subscribed(e Event) bool {
	if len(m.Events) == 0 {
		return true
	}
	for _, want := range m.Events {
		if want == e {
			return true
		}
	}
	return false
}

// Request is sent to a hook on stdin.
type Request struct {
	Event  Event           `json:"event"`
	Frame  int             `json:"frame"`
	Faces  []pose.Face     `json:"faces"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is read from a hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}
