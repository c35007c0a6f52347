// Package render draws face pose overlays onto frames and shows them.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/ayusman/tiltcam/internal/pose"
)

const (
	radToDeg = 180 / math.Pi

	// faceAspect stretches the face ellipse vertically.
	faceAspect = 1.5
)

// EyeAxes are the semi-axes of the ellipse drawn around each eye.
var EyeAxes = image.Point{X: 20, Y: 10}

// Overlay is the drawing geometry for one face, derived only from its pose.
type Overlay struct {
	EyeLine  [2]image.Point
	TiltLine [2]image.Point
	Center   image.Point
	FaceAxes image.Point
	Eyes     [2]image.Point
	AngleDeg float64
}

// OverlayFor computes the overlay geometry of f.
func OverlayFor(f pose.Face) Overlay {
	tip := image.Point{
		X: int(math.Cos(f.TiltRads) * f.Width),
		Y: int(math.Sin(f.TiltRads) * f.Width),
	}
	return Overlay{
		EyeLine:  [2]image.Point{f.LeftEye, f.RightEye},
		TiltLine: [2]image.Point{f.Pos, f.Pos.Add(tip)},
		Center:   f.Pos,
		FaceAxes: image.Point{X: int(f.Width), Y: int(f.Width * faceAspect)},
		Eyes:     [2]image.Point{f.LeftEye, f.RightEye},
		AngleDeg: f.TiltRads * radToDeg,
	}
}

// StatusText summarizes how many faces were found.
func StatusText(n int) string {
	switch n {
	case 0:
		return "No face detected"
	case 1:
		return "1 face detected"
	default:
		return fmt.Sprintf("%d faces detected", n)
	}
}

// TiltText reports the tilt of f in degrees.
func TiltText(f pose.Face) string {
	return fmt.Sprintf("Tilt: %f", f.TiltRads*radToDeg)
}
