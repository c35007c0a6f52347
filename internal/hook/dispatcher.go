package hook

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/log"
	"github.com/ayusman/tiltcam/internal/pose"
)

// Dispatcher runs subscribed hooks for every frame. Each hook has at most
// one execution in flight; frames arriving while it is busy are dropped for
// that hook so a slow hook never stalls the pipeline.
type Dispatcher struct {
	ctx      context.Context
	manager  *Manager
	executor *Executor
	log      *logrus.Logger

	mu      sync.Mutex
	busy    map[string]bool
	dropped map[string]int
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Executions are cancelled with ctx.
func NewDispatcher(ctx context.Context, m *Manager, e *Executor, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Dispatcher{
		ctx:      ctx,
		manager:  m,
		executor: e,
		log:      logger,
		busy:     make(map[string]bool),
		dropped:  make(map[string]int),
	}
}

// OnFrame starts every idle hook subscribed to the frame's event.
func (d *Dispatcher) OnFrame(index int, _ *gocv.Mat, faces []pose.Face) {
	event := EventFor(faces)

	for _, h := range d.manager.List() {
		if !h.Manifest.Subscribed(event) {
			continue
		}
		if !d.acquire(h.Manifest.Name) {
			continue
		}

		req := &Request{
			Event:  event,
			Frame:  index,
			Faces:  faces,
			Config: h.Manifest.Config,
		}

		d.wg.Add(1)
		go d.run(h, req)
	}
}

func (d *Dispatcher) run(h *Hook, req *Request) {
	defer d.wg.Done()
	defer d.release(h.Manifest.Name)

	entry := d.log.WithFields(logrus.Fields{
		"hook":  h.Manifest.Name,
		"event": req.Event,
		"frame": req.Frame,
	})

	resp, err := d.executor.Execute(d.ctx, h, req)
	if err != nil {
		entry.WithError(err).Warn("hook failed")
		return
	}
	if !resp.Success {
		entry.WithField("error", resp.Error).Warn("hook reported failure")
		return
	}
	entry.Trace("hook ran")
}

func (d *Dispatcher) acquire(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.busy[name] {
		d.dropped[name]++
		return false
	}
	d.busy[name] = true
	return true
}

func (d *Dispatcher) release(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.busy, name)
}

// Dropped returns how many frames were skipped for the named hook because
// it was still running.
func (d *Dispatcher) Dropped(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped[name]
}

// Wait blocks until all started executions finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
