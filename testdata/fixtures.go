// Package testdata builds synthetic scenes for pipeline tests: blank frames
// plus mock detectors that report a fixed set of faces and eyes.
package testdata

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/detector"
)

// Face is a synthetic face. Eyes are relative to the face crop, the way an
// eye detector run on the crop reports them.
type Face struct {
	Rect image.Rectangle
	Eyes []image.Rectangle
}

// TwoTiltedFaces returns two faces of different sizes: the first rolled
// clockwise (right eye lower), the second counter-clockwise.
func TwoTiltedFaces() []Face {
	return []Face{
		{
			Rect: image.Rect(40, 40, 140, 140),
			Eyes: []image.Rectangle{
				image.Rect(20, 20, 40, 40),
				image.Rect(60, 35, 80, 55),
			},
		},
		{
			Rect: image.Rect(300, 200, 420, 320),
			Eyes: []image.Rectangle{
				image.Rect(75, 20, 100, 45),
				image.Rect(20, 40, 45, 65),
			},
		},
	}
}

// BlankFrame returns a black BGR frame. The caller must Close it.
func BlankFrame(rows, cols int) *gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC3)
	return &m
}

// Sequence returns n blank 640x480 frames.
func Sequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		frames[i] = BlankFrame(480, 640)
	}
	return frames
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}

// Detectors returns mock face and eye detectors for the scene. The eye
// detector tells crops apart by their size, so faces must differ in size.
func Detectors(faces []Face) (face, eye *detector.MockDetector) {
	rects := make([]image.Rectangle, len(faces))
	bySize := make(map[image.Point][]image.Rectangle, len(faces))
	for i, f := range faces {
		rects[i] = f.Rect
		bySize[f.Rect.Size()] = f.Eyes
	}

	face = detector.NewMockDetector()
	face.SetRects(rects)

	eye = detector.NewMockDetector()
	eye.SetFunc(func(img *gocv.Mat) []image.Rectangle {
		return bySize[image.Pt(img.Cols(), img.Rows())]
	})

	return face, eye
}
