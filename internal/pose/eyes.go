package pose

import (
	"image"
	"sort"
)

// ResolveEyePair reduces raw eye detections to a left/right pair.
//
// The two largest non-empty rectangles by area are taken as the eyes and all
// others are dropped as noise. Equal areas keep detector order. This means a
// spurious detection larger than a real eye wins over that eye; callers that
// need better should filter detections before calling.
//
// The returned points are in the coordinate space of raw.
func ResolveEyePair(raw []image.Rectangle) (EyePair, error) {
	if len(raw) < 2 {
		return EyePair{}, ErrInsufficientEyeDetections
	}

	candidates := make([]image.Rectangle, 0, len(raw))
	for _, r := range raw {
		if r.Empty() {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) < 2 {
		return EyePair{}, ErrInsufficientEyeDetections
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Area(candidates[i]) > Area(candidates[j])
	})

	first := Center(candidates[0])
	second := Center(candidates[1])
	if second.X < first.X {
		return EyePair{Left: second, Right: first}, nil
	}
	return EyePair{Left: first, Right: second}, nil
}
