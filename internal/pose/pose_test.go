package pose

import (
	"errors"
	"image"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestCenter(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
		want image.Point
	}{
		{
			name: "zero size rectangle is its origin",
			rect: image.Rect(7, 11, 7, 11),
			want: image.Pt(7, 11),
		},
		{
			name: "even dimensions",
			rect: image.Rect(10, 20, 50, 60),
			want: image.Pt(30, 40),
		},
		{
			name: "odd dimensions truncate",
			rect: image.Rect(0, 0, 5, 3),
			want: image.Pt(2, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Center(tt.rect); got != tt.want {
				t.Errorf("Center(%v) = %v, want %v", tt.rect, got, tt.want)
			}
		})
	}
}

func TestEyePair_Translate(t *testing.T) {
	pair := EyePair{Left: image.Pt(10, 12), Right: image.Pt(30, 14)}

	got := pair.Translate(image.Pt(100, 200))

	if got.Left != image.Pt(110, 212) {
		t.Errorf("Left = %v, want (110,212)", got.Left)
	}
	if got.Right != image.Pt(130, 214) {
		t.Errorf("Right = %v, want (130,214)", got.Right)
	}
}

func TestResolveEyePair_Insufficient(t *testing.T) {
	tests := []struct {
		name string
		raw  []image.Rectangle
	}{
		{name: "nil", raw: nil},
		{name: "single detection", raw: []image.Rectangle{image.Rect(0, 0, 10, 10)}},
		{
			name: "two detections one empty",
			raw:  []image.Rectangle{image.Rect(0, 0, 10, 10), image.Rect(5, 5, 5, 20)},
		},
		{
			name: "all empty",
			raw:  []image.Rectangle{{}, {}, image.Rect(3, 3, 3, 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveEyePair(tt.raw)
			if !errors.Is(err, ErrInsufficientEyeDetections) {
				t.Errorf("expected ErrInsufficientEyeDetections, got %v", err)
			}
		})
	}
}

func TestResolveEyePair_LargestTwo(t *testing.T) {
	// R1: area 100 at x=50, R2: area 200 at x=10, R3: area 5 at x=30.
	r1 := image.Rect(50, 0, 60, 10)
	r2 := image.Rect(10, 0, 30, 10)
	r3 := image.Rect(30, 0, 35, 1)

	pair, err := ResolveEyePair([]image.Rectangle{r1, r2, r3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pair.Left != Center(r2) {
		t.Errorf("Left = %v, want center of R2 %v", pair.Left, Center(r2))
	}
	if pair.Right != Center(r1) {
		t.Errorf("Right = %v, want center of R1 %v", pair.Right, Center(r1))
	}
}

func TestResolveEyePair_SpuriousLargeDetectionWins(t *testing.T) {
	// The heuristic trusts area alone: a big false hit displaces a real eye.
	leftEye := image.Rect(10, 10, 20, 20)
	rightEye := image.Rect(40, 10, 50, 20)
	nostril := image.Rect(25, 40, 45, 60)

	pair, err := ResolveEyePair([]image.Rectangle{leftEye, rightEye, nostril})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pair.Right != Center(nostril) {
		t.Errorf("Right = %v, want the larger spurious detection %v", pair.Right, Center(nostril))
	}
	if pair.Left != Center(leftEye) {
		t.Errorf("Left = %v, want %v", pair.Left, Center(leftEye))
	}
}

func TestResolveEyePair_TiesKeepDetectorOrder(t *testing.T) {
	a := image.Rect(60, 0, 70, 10)
	b := image.Rect(0, 0, 10, 10)
	c := image.Rect(30, 0, 40, 10)

	pair, err := ResolveEyePair([]image.Rectangle{a, b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a and b come first among equal areas; c is dropped.
	if pair.Left != Center(b) || pair.Right != Center(a) {
		t.Errorf("got %+v, want Left=%v Right=%v", pair, Center(b), Center(a))
	}
}

func TestResolveEyePair_SkipsEmptyBeforeRanking(t *testing.T) {
	pair, err := ResolveEyePair([]image.Rectangle{
		image.Rect(0, 0, 0, 50),
		image.Rect(40, 5, 48, 13),
		image.Rect(4, 5, 12, 13),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.Left != image.Pt(8, 9) || pair.Right != image.Pt(44, 9) {
		t.Errorf("got %+v", pair)
	}
}

func TestEstimate(t *testing.T) {
	face := image.Rect(0, 0, 40, 40)

	tests := []struct {
		name      string
		eyes      EyePair
		wantTilt  float64
		wantWidth float64
	}{
		{
			name:      "level eyes",
			eyes:      EyePair{Left: image.Pt(10, 10), Right: image.Pt(30, 10)},
			wantTilt:  0,
			wantWidth: 20,
		},
		{
			name:      "right eye lower",
			eyes:      EyePair{Left: image.Pt(10, 10), Right: image.Pt(30, 20)},
			wantTilt:  math.Atan2(10, 20),
			wantWidth: math.Sqrt(500),
		},
		{
			name:      "right eye higher",
			eyes:      EyePair{Left: image.Pt(10, 20), Right: image.Pt(30, 10)},
			wantTilt:  -math.Atan2(10, 20),
			wantWidth: math.Sqrt(500),
		},
		{
			name:      "labels swapped uses leftmost as tail",
			eyes:      EyePair{Left: image.Pt(30, 20), Right: image.Pt(10, 10)},
			wantTilt:  math.Atan2(10, 20),
			wantWidth: math.Sqrt(500),
		},
		{
			name:      "coincident eyes",
			eyes:      EyePair{Left: image.Pt(20, 15), Right: image.Pt(20, 15)},
			wantTilt:  0,
			wantWidth: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(face, tt.eyes)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got.TiltRads-tt.wantTilt) > epsilon {
				t.Errorf("TiltRads = %f, want %f", got.TiltRads, tt.wantTilt)
			}
			if math.Abs(got.Width-tt.wantWidth) > epsilon {
				t.Errorf("Width = %f, want %f", got.Width, tt.wantWidth)
			}
			if got.Pos != image.Pt(20, 20) {
				t.Errorf("Pos = %v, want (20,20)", got.Pos)
			}
			if got.LeftEye != tt.eyes.Left || got.RightEye != tt.eyes.Right {
				t.Errorf("eyes not carried over: got %v %v", got.LeftEye, got.RightEye)
			}
		})
	}
}

func TestEstimate_SpecValues(t *testing.T) {
	got, err := Estimate(image.Rect(0, 0, 40, 40), EyePair{Left: image.Pt(10, 10), Right: image.Pt(30, 20)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.TiltRads-0.4636) > 1e-4 {
		t.Errorf("TiltRads = %f, want ~0.4636", got.TiltRads)
	}
	if math.Abs(got.Width-22.36) > 1e-2 {
		t.Errorf("Width = %f, want ~22.36", got.Width)
	}
}

func TestEstimate_Rejects(t *testing.T) {
	t.Run("empty face rectangle", func(t *testing.T) {
		_, err := Estimate(image.Rect(5, 5, 5, 40), EyePair{Left: image.Pt(1, 1), Right: image.Pt(3, 1)})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("vertical eye line", func(t *testing.T) {
		_, err := Estimate(image.Rect(0, 0, 40, 40), EyePair{Left: image.Pt(20, 10), Right: image.Pt(20, 30)})
		if !errors.Is(err, ErrVerticalEyeLine) {
			t.Errorf("expected ErrVerticalEyeLine, got %v", err)
		}
	})
}

func TestEstimate_TiltRangeAndPositiveWidth(t *testing.T) {
	face := image.Rect(0, 0, 64, 64)
	for dx := -8; dx <= 8; dx++ {
		for dy := -8; dy <= 8; dy++ {
			eyes := EyePair{Left: image.Pt(32, 32), Right: image.Pt(32+dx, 32+dy)}
			got, err := Estimate(face, eyes)
			if dx == 0 && dy != 0 {
				if !errors.Is(err, ErrVerticalEyeLine) {
					t.Errorf("dx=0 dy=%d: expected ErrVerticalEyeLine, got %v", dy, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("dx=%d dy=%d: unexpected error: %v", dx, dy, err)
			}
			if got.TiltRads <= -math.Pi/2 || got.TiltRads > math.Pi/2 {
				t.Errorf("dx=%d dy=%d: TiltRads %f out of range", dx, dy, got.TiltRads)
			}
			if !(got.Width > 0) || math.IsInf(got.Width, 0) {
				t.Errorf("dx=%d dy=%d: Width %f not positive and finite", dx, dy, got.Width)
			}
		}
	}
}
