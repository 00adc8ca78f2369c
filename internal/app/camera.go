package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const minOrbitDistance = 1.0

// updateCamera places the camera on its orbit sphere around the target.
func (a *App) updateCamera() {
	x := a.camDistance * float32(math.Cos(float64(a.camAngleX))) * float32(math.Sin(float64(a.camAngleY)))
	y := a.camDistance * float32(math.Cos(float64(a.camAngleX))) * float32(math.Cos(float64(a.camAngleY)))
	z := a.camDistance * float32(math.Sin(float64(a.camAngleX)))

	a.camera.Position = rl.Vector3{
		X: a.camera.Target.X + x,
		Y: a.camera.Target.Y + y,
		Z: a.camera.Target.Z + z,
	}
}

// handleInput applies mouse orbit and zoom. Zoom is clamped to the
// placement's orbit limit so the model cannot be lost off the far plane.
func (a *App) handleInput() {
	if !a.meshLoaded {
		return
	}

	changed := false

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.camDistance *= 1 - wheel*0.1
		maxOrbit := float32(a.placement.MaxOrbitDistance)
		if a.camDistance > maxOrbit {
			a.camDistance = maxOrbit
		}
		if a.camDistance < minOrbitDistance {
			a.camDistance = minOrbitDistance
		}
		changed = true
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			a.camAngleY -= delta.X * 0.01
			a.camAngleX += delta.Y * 0.01

			// Clamp elevation to avoid gimbal lock at the poles.
			limit := float32(math.Pi/2 - 0.1)
			if a.camAngleX > limit {
				a.camAngleX = limit
			}
			if a.camAngleX < -limit {
				a.camAngleX = -limit
			}
			changed = true
		}
	}

	if changed {
		a.updateCamera()
	}
}
