package engine

import "math"

// AlignTime snaps t to the nearest frame boundary.
func AlignTime(t float64, fps int) float64 {
	if fps <= 0 {
		return t
	}
	return math.Round(t*float64(fps)) / float64(fps)
}

// FrameTime is the timeline position of frame i.
func FrameTime(i, fps int) float64 {
	return float64(i) / float64(fps)
}

// FrameRange lists the frame indices whose time lies in [from, to]. Both
// ends are snapped to frames first, so an overlay ending exactly on to is
// still exported.
func FrameRange(from, to float64, fps int) (first, last int) {
	if fps <= 0 || to < from {
		return 0, -1
	}
	first = int(math.Round(math.Max(from, 0) * float64(fps)))
	last = int(math.Round(to * float64(fps)))
	return first, last
}
