package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/capture"
	"github.com/ayusman/tiltcam/internal/pose"
)

// Run processes frames until the source is exhausted, the display asks to
// quit, or ctx is cancelled.
//
// Pipeline per frame:
// 1. Read a frame (blocking)
// 2. Convert to grayscale
// 3. Estimate face poses
// 4. Draw overlays onto the color frame
// 5. Notify observers, record poses, show the frame
func (a *App) Run(ctx context.Context) error {
	cam := a.config.Camera
	if cam == nil {
		return errors.New("app: no camera configured")
	}
	if a.config.Analyzer == nil {
		return errors.New("app: no analyzer configured")
	}

	if err := cam.Open(); err != nil {
		return err
	}
	defer func() {
		if err := cam.Close(); err != nil {
			a.log.WithError(err).Warn("error closing camera")
		}
	}()

	if err := a.startSession(cam.Source()); err != nil {
		return err
	}

	a.log.WithField("source", cam.Source()).Info("pipeline started")

	failures := 0
	for index := 0; ; {
		select {
		case <-ctx.Done():
			a.log.WithField("frames", index).Info("pipeline stopped")
			return nil
		default:
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrSourceExhausted) {
				a.log.WithField("frames", index).Info("frame source exhausted")
				return nil
			}
			failures++
			if failures >= MaxReadErrors {
				return fmt.Errorf("read frame: %w", err)
			}
			a.log.WithError(err).Warn("error reading frame")
			continue
		}
		failures = 0

		a.ProcessFrame(index, frame)
		quit := a.show(frame)
		frame.Close()
		index++

		if quit {
			a.log.WithField("frames", index).Info("display closed")
			return nil
		}
	}
}

// ProcessFrame analyzes one color frame, draws onto it, notifies observers
// and records the result. It returns the faces found.
func (a *App) ProcessFrame(index int, frame *gocv.Mat) []pose.Face {
	gray := capture.ToGray(frame, a.config.Equalize)
	faces := a.config.Analyzer.Analyze(&gray)
	gray.Close()

	if a.OverlayEnabled() {
		a.config.Renderer.Draw(frame, faces)
	}

	a.log.WithFields(logrus.Fields{
		"frame": index,
		"faces": len(faces),
	}).Trace("frame analyzed")

	for _, o := range a.snapshotObservers() {
		o.OnFrame(index, frame, faces)
	}

	a.record(index, faces)

	return faces
}

func (a *App) startSession(source string) error {
	if a.config.Store == nil {
		return nil
	}

	sess, err := a.config.Store.Sessions().Create(source)
	if err != nil {
		return fmt.Errorf("create recording session: %w", err)
	}

	a.mu.Lock()
	a.session = sess
	a.mu.Unlock()

	a.log.WithField("session", sess.ID).Info("recording poses")
	return nil
}

func (a *App) record(index int, faces []pose.Face) {
	sess := a.Session()
	if sess == nil {
		return
	}
	if err := a.config.Store.Poses().Record(sess.ID, index, faces); err != nil {
		a.log.WithError(err).WithField("frame", index).Warn("failed to record poses")
	}
}

func (a *App) show(frame *gocv.Mat) bool {
	if a.config.Display == nil {
		return false
	}
	return a.config.Display.Show(frame)
}
