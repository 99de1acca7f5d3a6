package docload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageClamping(t *testing.T) {
	v := NewView(5)
	v.SetPage(0)
	assert.Equal(t, 1, v.Page())
	v.SetPage(99)
	assert.Equal(t, 5, v.Page())

	v.SetPage(5)
	v.NextPage()
	assert.Equal(t, 5, v.Page())
	v.SetPage(1)
	v.PrevPage()
	assert.Equal(t, 1, v.Page())
}

func TestZoomAlwaysClamped(t *testing.T) {
	v := NewView(1)
	for i := 0; i < 100; i++ {
		v.ZoomIn()
	}
	assert.InDelta(t, MaxScale, v.Scale(), 1e-9)

	for i := 0; i < 1000; i++ {
		v.ZoomOut()
	}
	assert.InDelta(t, MinScale, v.Scale(), 1e-9)
}

func TestFitWidthDerivesScaleFromContainer(t *testing.T) {
	v := NewView(1)
	v.Resize(basePageW*1.5, basePageH)
	v.SetFit(FitWidth)
	assert.InDelta(t, 1.5, v.Scale(), 1e-9)

	// A wider container than the max zoom still clamps.
	v.Resize(basePageW*10, basePageH)
	assert.InDelta(t, MaxScale, v.Scale(), 1e-9)
}

func TestFitHeightDerivesScaleFromContainer(t *testing.T) {
	v := NewView(1)
	v.Resize(basePageW, basePageH*0.75)
	v.SetFit(FitHeight)
	assert.InDelta(t, 0.75, v.Scale(), 1e-9)
}

func TestSwitchingToManualAnchorsComputedScale(t *testing.T) {
	v := NewView(1)
	v.Resize(basePageW*1.2, basePageH)
	v.SetFit(FitWidth)
	assert.InDelta(t, 1.2, v.Scale(), 1e-9)

	v.SetFit(FitManual)
	// Resizing no longer changes the scale; manual zoom starts from 1.2.
	v.Resize(basePageW*3, basePageH)
	assert.InDelta(t, 1.2, v.Scale(), 1e-9)
	v.ZoomIn()
	assert.InDelta(t, 1.3, v.Scale(), 1e-9)
}

func TestZoomLeavesFitMode(t *testing.T) {
	v := NewView(1)
	v.Resize(basePageW*2, basePageH)
	v.SetFit(FitWidth)
	v.ZoomIn()
	assert.Equal(t, FitManual, v.Fit())
	assert.InDelta(t, 2.1, v.Scale(), 1e-9)
}
