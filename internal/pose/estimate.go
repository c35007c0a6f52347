package pose

import (
	"image"
	"math"
)

// widthScale halves the tilt-compensated face width so it can be used
// directly as an ellipse semi-axis.
const widthScale = 0.5

// Estimate computes the pose of a face from its detection rectangle and its
// resolved eyes, both in frame coordinates.
//
// The tilt is the angle of the vector from the leftmost eye to the rightmost
// one, chosen by x coordinate rather than by the pair's labels. The face
// rectangle is assumed square, so the width along the tilted axis grows by
// 1/cos(tilt).
func Estimate(faceRect image.Rectangle, eyes EyePair) (Face, error) {
	if faceRect.Empty() {
		return Face{}, ErrEmptyInput
	}

	tilt, err := Tilt(eyes.Left, eyes.Right)
	if err != nil {
		return Face{}, err
	}

	return Face{
		Pos:      Center(faceRect),
		Width:    float64(faceRect.Dx()) / math.Cos(tilt) * widthScale,
		TiltRads: tilt,
		LeftEye:  eyes.Left,
		RightEye: eyes.Right,
	}, nil
}

// Tilt returns the roll angle in radians of the line through a and b,
// measured from whichever point has the smaller x. The result lies in
// (-π/2, π/2).
func Tilt(a, b image.Point) (float64, error) {
	leftmost, rightmost := a, b
	if b.X < a.X {
		leftmost, rightmost = b, a
	}

	d := rightmost.Sub(leftmost)
	if d.X == 0 && d.Y != 0 {
		return 0, ErrVerticalEyeLine
	}
	return math.Atan2(float64(d.Y), float64(d.X)), nil
}
