// Package framing derives a deterministic camera placement from a mesh
// bounding box, independent of the source file's units.
package framing

import (
	"math"

	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

// NormalizedSize is the canonical extent the largest mesh axis is scaled to.
// Keeping every model at the same nominal size makes the camera distance
// math independent of the source file's units.
const NormalizedSize = 100.0

const (
	distanceHeadroom = 1.25
	farPlaneFactor   = 3.5
	orbitLimitFactor = 2.5
)

// Placement positions a mesh and its camera in the scene. Translation and
// UniformScale map raw mesh coordinates into scene coordinates: the model
// is centered on X/Y and rests on the z=0 ground plane.
type Placement struct {
	Translation      geometry.Vector3
	UniformScale     float64
	CameraDistance   float64
	FarPlane         float64
	OrbitTarget      geometry.Vector3
	MaxOrbitDistance float64
}

// DegenerateMeshError reports a mesh whose bounding box has zero extent,
// for which no camera placement exists.
type DegenerateMeshError struct{}

func (e *DegenerateMeshError) Error() string {
	return "framing: mesh bounding box has zero extent, camera placement undefined"
}

// Validate rejects placements derived from a degenerate mesh. Consumers
// must call this before committing the placement to a scene.
func (p Placement) Validate() error {
	if !(p.CameraDistance > 0) || math.IsInf(p.CameraDistance, 0) {
		return &DegenerateMeshError{}
	}
	return nil
}

// Frame computes the placement for a mesh viewed with the given vertical
// field of view. Degenerate meshes (all vertices coincident) yield a
// placement with CameraDistance == 0, which Validate rejects.
//
// The camera distance is an intentional over-estimate rather than a tight
// frustum fit: it guarantees the model clears the near and far planes
// across the supported FOV range.
func Frame(mesh *stl.Mesh, verticalFovDegrees float64) Placement {
	bbox := mesh.BoundingBox()
	maxDim := bbox.MaxDimension()
	if maxDim <= 0 {
		return Placement{UniformScale: 1, OrbitTarget: bbox.Center()}
	}

	scale := NormalizedSize / maxDim
	center := bbox.Center()
	translation := geometry.NewVector3(
		-center.X*scale,
		-center.Y*scale,
		-bbox.Min.Z*scale,
	)

	// Scene bounding box after scaling and insertion.
	sceneMin := bbox.Min.Mul(scale).Add(translation)
	sceneMax := bbox.Max.Mul(scale).Add(translation)
	sceneSize := sceneMax.Sub(sceneMin)
	dimension := math.Max(sceneSize.X, math.Max(sceneSize.Y, sceneSize.Z))

	fovRadians := verticalFovDegrees * math.Pi / 180
	cameraDistance := math.Abs(dimension/4*math.Tan(fovRadians*2)) * distanceHeadroom

	var cameraToFarEdge float64
	if sceneMin.Z < 0 {
		cameraToFarEdge = -sceneMin.Z + cameraDistance
	} else {
		cameraToFarEdge = cameraDistance - sceneMin.Z
	}

	orbitTarget := geometry.NewVector3(
		(sceneMin.X+sceneMax.X)/2,
		(sceneMin.Y+sceneMax.Y)/2,
		(sceneMin.Z+sceneMax.Z)/2,
	)

	return Placement{
		Translation:      translation,
		UniformScale:     scale,
		CameraDistance:   cameraDistance,
		FarPlane:         cameraToFarEdge * farPlaneFactor,
		OrbitTarget:      orbitTarget,
		MaxOrbitDistance: cameraToFarEdge * orbitLimitFactor,
	}
}
