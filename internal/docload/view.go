package docload

// FitMode is the policy for deriving render scale from the viewport instead
// of a fixed zoom percentage.
type FitMode int

const (
	FitManual FitMode = iota
	FitWidth
	FitHeight
)

// Zoom bounds and step, matching the web viewer.
const (
	MinScale  = 0.5
	MaxScale  = 2.5
	ZoomStep  = 0.1
	basePageW = 612.0 // US Letter points; nominal page box for fit math
	basePageH = 792.0
)

// View tracks page, zoom and fit state for one open document.
type View struct {
	page     int
	numPages int
	scale    float64
	fit      FitMode

	// Measured container size, in the viewer's render units.
	containerW float64
	containerH float64
}

// NewView starts at page 1, 100% manual zoom.
func NewView(numPages int) *View {
	if numPages < 1 {
		numPages = 1
	}
	return &View{page: 1, numPages: numPages, scale: 1.0, fit: FitManual}
}

// Page returns the current 1-indexed page.
func (v *View) Page() int { return v.page }

// NumPages returns the document length.
func (v *View) NumPages() int { return v.numPages }

// SetPage clamps to [1, numPages].
func (v *View) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	if p > v.numPages {
		p = v.numPages
	}
	v.page = p
}

// NextPage advances one page, clamped.
func (v *View) NextPage() { v.SetPage(v.page + 1) }

// PrevPage goes back one page, clamped.
func (v *View) PrevPage() { v.SetPage(v.page - 1) }

// Fit returns the active fit mode.
func (v *View) Fit() FitMode { return v.fit }

// SetFit changes the fit mode. Entering manual anchors the currently
// computed scale so zooming continues from what the user sees.
func (v *View) SetFit(mode FitMode) {
	if mode == FitManual && v.fit != FitManual {
		v.scale = clampScale(v.Scale())
	}
	v.fit = mode
}

// Resize records the measured container size used by the fit modes.
func (v *View) Resize(w, h float64) {
	v.containerW = w
	v.containerH = h
}

// ZoomIn increases manual zoom one step. Implicitly leaves fit mode.
func (v *View) ZoomIn() {
	v.SetFit(FitManual)
	v.scale = clampScale(v.scale + ZoomStep)
}

// ZoomOut decreases manual zoom one step. Implicitly leaves fit mode.
func (v *View) ZoomOut() {
	v.SetFit(FitManual)
	v.scale = clampScale(v.scale - ZoomStep)
}

// Scale returns the effective render scale: the manual value, or the value
// derived from the container under a fit mode. Always within
// [MinScale, MaxScale].
func (v *View) Scale() float64 {
	switch v.fit {
	case FitWidth:
		if v.containerW > 0 {
			return clampScale(v.containerW / basePageW)
		}
	case FitHeight:
		if v.containerH > 0 {
			return clampScale(v.containerH / basePageH)
		}
	}
	return clampScale(v.scale)
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
