package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/pose"
)

var (
	green = color.RGBA{G: 255}
	red   = color.RGBA{R: 255}
	blue  = color.RGBA{B: 255}
)

// Text placement
var (
	statusOrigin = image.Point{X: 10, Y: 20}
	tiltOrigin   = image.Point{X: 10, Y: 40}
)

// Renderer draws face overlays and status text onto frames.
type Renderer struct {
	thickness int
	fontScale float64
}

// NewRenderer returns a Renderer with the default line and text style.
func NewRenderer() *Renderer {
	return &Renderer{
		thickness: 2,
		fontScale: 0.5,
	}
}

// Draw annotates img in place with one overlay per face and a status line.
func (r *Renderer) Draw(img *gocv.Mat, faces []pose.Face) {
	if img == nil || img.Empty() {
		return
	}

	for _, f := range faces {
		o := OverlayFor(f)

		gocv.Line(img, o.EyeLine[0], o.EyeLine[1], green, r.thickness)
		gocv.Line(img, o.TiltLine[0], o.TiltLine[1], red, r.thickness)
		gocv.Ellipse(img, o.Center, o.FaceAxes, o.AngleDeg, 0, 360, blue, r.thickness)
		for _, eye := range o.Eyes {
			gocv.Ellipse(img, eye, EyeAxes, o.AngleDeg, 0, 360, red, r.thickness)
		}
	}

	r.text(img, StatusText(len(faces)), statusOrigin)
	if len(faces) > 0 {
		r.text(img, TiltText(faces[0]), tiltOrigin)
	}
}

func (r *Renderer) text(img *gocv.Mat, s string, org image.Point) {
	gocv.PutTextWithParams(img, s, org, gocv.FontHersheySimplex, r.fontScale, blue, 1, gocv.LineAA, false)
}
