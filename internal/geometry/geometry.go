package geometry

import "math"

// Screen describes a display's usable area in physical pixels.
type Screen struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Frame is a planned window size and position in screen coordinates.
type Frame struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Limits caps planned window dimensions independently of the screen.
// A zero value means "no cap".
type Limits struct {
	MaxWidth  int
	MaxHeight int
}

const (
	// aspectRatio is window height relative to width (10:16).
	aspectRatio = 0.625

	// screenFraction bounds the planned window to 90% of the screen in
	// each dimension, so there is always some desktop visible around it.
	screenFraction = 0.9

	minWidthRatio = 0.1
	maxWidthRatio = 1.0
)

// Plan computes an initial window frame for the given screen: widthRatio of
// the screen width (clamped to [0.1, 1.0]), a 10:16 height, both bounded by
// 90% of the screen and by limits, centered within the screen bounds.
//
// Plan is pure; it never touches the window system.
func Plan(screen Screen, widthRatio float64, limits Limits) Frame {
	if widthRatio < minWidthRatio {
		widthRatio = minWidthRatio
	}
	if widthRatio > maxWidthRatio {
		widthRatio = maxWidthRatio
	}

	width := round(float64(screen.Width) * widthRatio)
	if maxByScreen := round(float64(screen.Width) * screenFraction); width > maxByScreen {
		width = maxByScreen
	}
	if limits.MaxWidth > 0 && width > limits.MaxWidth {
		width = limits.MaxWidth
	}

	height := round(float64(width) * aspectRatio)
	maxHeight := round(float64(screen.Height) * screenFraction)
	if limits.MaxHeight > 0 && maxHeight > limits.MaxHeight {
		maxHeight = limits.MaxHeight
	}
	if height > maxHeight {
		height = maxHeight
	}

	// Saturating subtraction: a window larger than the screen sits at the
	// screen origin instead of reporting a negative offset.
	dx := screen.Width - width
	if dx < 0 {
		dx = 0
	}
	dy := screen.Height - height
	if dy < 0 {
		dy = 0
	}

	return Frame{
		X:      screen.X + dx/2,
		Y:      screen.Y + dy/2,
		Width:  width,
		Height: height,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
