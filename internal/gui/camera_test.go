package gui

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/geometry"
)

func testPlacement() framing.Placement {
	return framing.Placement{
		UniformScale:     1,
		CameraDistance:   100,
		FarPlane:         350,
		OrbitTarget:      geometry.NewVector3(0, 0, 50),
		MaxOrbitDistance: 250,
	}
}

func TestOrbitTargetProjectsToScreenCenter(t *testing.T) {
	c := newOrbitCamera(testPlacement(), 36)

	x, y, z := c.project(c.target, 800, 600)

	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)
	assert.InDelta(t, c.distance, z, 1e-9)
}

func TestZoomClampedToOrbitLimit(t *testing.T) {
	c := newOrbitCamera(testPlacement(), 36)

	c.zoom(10)
	assert.Equal(t, 250.0, c.distance)

	c.zoom(-0.9999)
	assert.Equal(t, 1.0, c.distance)
}

func TestRotateClampsElevation(t *testing.T) {
	c := newOrbitCamera(testPlacement(), 36)

	c.rotate(10, 0)
	assert.InDelta(t, math.Pi/2-0.1, c.angleX, 1e-9)

	c.rotate(-20, 0)
	assert.InDelta(t, -(math.Pi/2 - 0.1), c.angleX, 1e-9)
}

func TestProjectionKeepsCameraOnOrbitSphere(t *testing.T) {
	c := newOrbitCamera(testPlacement(), 36)

	for _, azimuth := range []float64{0, 1, 2.5, -1.2} {
		c.rotate(0.2, azimuth)
		assert.InDelta(t, c.distance, c.position.Sub(c.target).Length(), 1e-9)
	}
}
