// Package pose derives per-face orientation estimates from raw face and eye
// detections. Everything here is pure geometry: no image access, no state.
package pose

import (
	"errors"
	"image"
)

var (
	// ErrInsufficientEyeDetections is returned when a face region does not
	// contain at least two usable eye candidates.
	ErrInsufficientEyeDetections = errors.New("insufficient eye detections")

	// ErrEmptyInput is returned for an empty frame or rectangle.
	ErrEmptyInput = errors.New("empty input")

	// ErrVerticalEyeLine is returned when both eyes share an x coordinate but
	// not a y coordinate. The tilt would be ±π/2 and the width unbounded.
	ErrVerticalEyeLine = errors.New("vertical eye line")
)

// Face is the pose estimate for one detected face in one frame.
type Face struct {
	Pos      image.Point `json:"pos"`
	Width    float64     `json:"width"`     // half-width, tilt-compensated
	TiltRads float64     `json:"tilt_rads"` // roll, positive when the right eye is lower
	LeftEye  image.Point `json:"left_eye"`
	RightEye image.Point `json:"right_eye"`
}

// EyePair is an ordered pair of eye centers.
type EyePair struct {
	Left  image.Point
	Right image.Point
}

// Translate returns the pair moved by offset, typically the origin of the
// face crop the eyes were detected in.
func (p EyePair) Translate(offset image.Point) EyePair {
	return EyePair{
		Left:  p.Left.Add(offset),
		Right: p.Right.Add(offset),
	}
}

// Center returns the middle of r using integer division.
func Center(r image.Rectangle) image.Point {
	return image.Point{
		X: r.Min.X + r.Dx()/2,
		Y: r.Min.Y + r.Dy()/2,
	}
}

// Area returns width times height of r.
func Area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
