package capture

import (
	"gocv.io/x/gocv"
)

// ToGray returns a single-channel copy of frame suitable for detection.
// Color frames are converted from BGR; gray frames are copied. With equalize
// set, the histogram is equalized to even out lighting.
// The caller is responsible for closing the returned Mat.
func ToGray(frame *gocv.Mat, equalize bool) gocv.Mat {
	gray := gocv.NewMat()
	if frame == nil || frame.Empty() {
		return gray
	}

	switch frame.Channels() {
	case 1:
		frame.CopyTo(&gray)
	case 4:
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	}

	if equalize {
		equalized := gocv.NewMat()
		gocv.EqualizeHist(gray, &equalized)
		gray.Close()
		return equalized
	}

	return gray
}
