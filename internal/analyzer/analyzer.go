// Package analyzer turns one grayscale frame into face pose estimates using
// an injected face detector and eye detector.
package analyzer

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/detector"
	"github.com/ayusman/tiltcam/internal/log"
	"github.com/ayusman/tiltcam/internal/pose"
)

// Analyzer estimates face poses frame by frame. It holds no per-frame state.
type Analyzer struct {
	faces detector.Detector
	eyes  detector.Detector
	log   *logrus.Logger
}

// New returns an Analyzer over already-loaded detectors.
func New(faces, eyes detector.Detector, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Analyzer{
		faces: faces,
		eyes:  eyes,
		log:   logger,
	}
}

// Analyze returns the pose of every face in frame whose eyes could be
// resolved, in the order the face detector reported them. Faces that fail
// are left out; an empty frame yields nothing without running any detector.
func (a *Analyzer) Analyze(frame *gocv.Mat) []pose.Face {
	if frame == nil || frame.Empty() {
		return nil
	}

	rects, err := a.faces.Detect(frame)
	if err != nil {
		a.log.WithError(err).Warn("face detection failed")
		return nil
	}

	var faces []pose.Face
	for i, rect := range rects {
		face, err := a.AnalyzeFace(frame, rect)
		if err != nil {
			a.log.WithFields(logrus.Fields{
				"face": i,
				"rect": rect,
			}).WithError(err).Debug("face skipped")
			continue
		}
		faces = append(faces, face)
	}

	return faces
}

// AnalyzeFace estimates the pose of the face at faceRect in frame.
func (a *Analyzer) AnalyzeFace(frame *gocv.Mat, faceRect image.Rectangle) (pose.Face, error) {
	if frame == nil || frame.Empty() || faceRect.Empty() {
		return pose.Face{}, pose.ErrEmptyInput
	}

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	crop := faceRect.Intersect(bounds)
	if crop.Empty() {
		return pose.Face{}, pose.ErrEmptyInput
	}

	region := frame.Region(crop)
	raw, err := a.eyes.Detect(&region)
	region.Close()
	if err != nil {
		return pose.Face{}, fmt.Errorf("eye detection: %w", err)
	}

	eyes, err := pose.ResolveEyePair(raw)
	if err != nil {
		return pose.Face{}, err
	}

	return pose.Estimate(faceRect, eyes.Translate(crop.Min))
}
