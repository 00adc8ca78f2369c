// Package gui is the software frontend: a fyne wireframe widget that
// projects the model on the CPU. It implements the same viewer
// collaborator interfaces as the GPU frontend, so both are driven by one
// coordinator.
package gui

import (
	"math"

	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/geometry"
)

// orbitCamera projects world points to screen space. The model is
// Z-up after framing, so the camera orbits with Z as the vertical axis.
type orbitCamera struct {
	target   geometry.Vector3
	distance float64
	maxOrbit float64
	farPlane float64
	fov      float64 // radians
	angleX   float64 // elevation
	angleY   float64 // azimuth

	position geometry.Vector3
}

func newOrbitCamera(placement framing.Placement, fovDegrees float64) *orbitCamera {
	c := &orbitCamera{
		target:   placement.OrbitTarget,
		distance: placement.CameraDistance,
		maxOrbit: placement.MaxOrbitDistance,
		farPlane: placement.FarPlane,
		fov:      fovDegrees * math.Pi / 180,
		angleX:   0.3,
		angleY:   0.3,
	}
	c.updatePosition()
	return c
}

func (c *orbitCamera) updatePosition() {
	x := c.distance * math.Cos(c.angleX) * math.Sin(c.angleY)
	y := c.distance * math.Cos(c.angleX) * math.Cos(c.angleY)
	z := c.distance * math.Sin(c.angleX)

	c.position = c.target.Add(geometry.NewVector3(x, y, z))
}

// rotate adjusts elevation and azimuth, clamping elevation short of the
// poles to avoid gimbal lock.
func (c *orbitCamera) rotate(deltaElevation, deltaAzimuth float64) {
	c.angleX += deltaElevation
	c.angleY += deltaAzimuth

	limit := math.Pi/2 - 0.1
	if c.angleX > limit {
		c.angleX = limit
	}
	if c.angleX < -limit {
		c.angleX = -limit
	}

	c.updatePosition()
}

// zoom scales the orbit distance, clamped between a near floor and the
// placement's orbit limit.
func (c *orbitCamera) zoom(delta float64) {
	c.distance *= 1.0 + delta
	if c.distance < 1.0 {
		c.distance = 1.0
	}
	if c.maxOrbit > 0 && c.distance > c.maxOrbit {
		c.distance = c.maxOrbit
	}
	c.updatePosition()
}

// project maps a world point to screen coordinates plus view-space depth.
// Points behind the camera are clamped to a small positive depth.
func (c *orbitCamera) project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.target.Sub(c.position).Normalize()
	right := forward.Cross(geometry.NewVector3(0, 0, 1)).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 0.01 {
		z = 0.01
	}

	aspect := width / height
	fovScale := math.Tan(c.fov / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}
