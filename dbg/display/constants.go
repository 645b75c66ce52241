package display

import "github.com/valerio/go-dbg/dbg/render"

// Overlay window constants
const (
	// OverlayTitle is the title of the debugger overlay window
	OverlayTitle = "Debug"
	// OverlayWidth is the default overlay window width
	OverlayWidth = 1024
	// OverlayHeight is the default overlay window height
	OverlayHeight = 768
)

// Runner window constants
const (
	// RunnerTitle is the title of the window shown while DBG runs a program
	RunnerTitle = "Debug"
	// RunnerWidth is the runner window width
	RunnerWidth = 1024
	// RunnerHeight is the runner window height
	RunnerHeight = 768
)

// Primary window constants
const (
	// PrimaryTitle is the title of the emulator's own window
	PrimaryTitle = "go-dbg"
	// PrimaryWidth is the default primary window width (VGA 640 * 1)
	PrimaryWidth = 640
	// PrimaryHeight is the default primary window height (VGA 400 * 1)
	PrimaryHeight = 400
)

// ColorScheme holds the colors the overlay is drawn with.
type ColorScheme struct {
	Background render.Color
}

// DefaultColorScheme is the dark gray overlay scheme.
var DefaultColorScheme = ColorScheme{
	Background: render.Color{R: 0.110, G: 0.110, B: 0.110, A: 1.0},
}

// RunnerBackground is the color the runner window is cleared to.
var RunnerBackground = render.Color{R: 0.0, G: 1.0, B: 0.0, A: 1.0}

// PrimaryBackground is the color the primary window is cleared to.
var PrimaryBackground = render.Color{R: 0.0, G: 0.0, B: 0.0, A: 1.0}
