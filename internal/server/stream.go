package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// streamInterval caps the MJPEG rate per client (~15 FPS).
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the most recently published frame as MJPEG.
type StreamHandler struct {
	mu      sync.RWMutex
	frame   []byte
	updated chan struct{}
}

// NewStreamHandler creates a StreamHandler with no frame yet.
func NewStreamHandler() *StreamHandler {
	return &StreamHandler{updated: make(chan struct{})}
}

// Publish encodes img as JPEG and makes it the current frame.
func (h *StreamHandler) Publish(img *gocv.Mat) error {
	if img == nil || img.Empty() {
		return nil
	}

	buf, err := gocv.IMEncode(".jpg", *img)
	if err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory; copy before Close.
	data := append([]byte(nil), buf.GetBytes()...)
	h.PublishJPEG(data)
	return nil
}

// PublishJPEG makes data the current frame and wakes waiting clients.
func (h *StreamHandler) PublishJPEG(data []byte) {
	h.mu.Lock()
	h.frame = data
	close(h.updated)
	h.updated = make(chan struct{})
	h.mu.Unlock()
}

// Latest returns the current frame and a channel closed on the next publish.
func (h *StreamHandler) Latest() ([]byte, <-chan struct{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame, h.updated
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	frame, next := h.Latest()
	for {
		if frame != nil {
			if err := writePart(w, frame); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-next:
		}

		select {
		case <-r.Context().Done():
			return
		case <-time.After(streamInterval):
		}

		frame, next = h.Latest()
	}
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\r\n")
	return err
}
