package app

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

const reflectionResolution = 512

// CommitMesh implements viewer.Renderer. Runs on the main thread via the
// event queue; raylib requires GPU uploads there.
func (a *App) CommitMesh(mesh *stl.Mesh, placement framing.Placement) error {
	a.model = mesh
	a.placement = placement
	a.mesh = meshToRaylib(mesh, a.opts.Model)
	a.material = rl.LoadMaterialDefault()

	scale := float32(placement.UniformScale)
	a.transform = rl.MatrixMultiply(
		rl.MatrixScale(scale, scale, scale),
		rl.MatrixTranslate(
			float32(placement.Translation.X),
			float32(placement.Translation.Y),
			float32(placement.Translation.Z),
		),
	)

	a.camDistance = float32(placement.CameraDistance)
	a.camAngleX = 0.3
	a.camAngleY = 0.3
	a.camera = rl.Camera3D{
		Target: rl.Vector3{
			X: float32(placement.OrbitTarget.X),
			Y: float32(placement.OrbitTarget.Y),
			Z: float32(placement.OrbitTarget.Z),
		},
		Up:         rl.Vector3{Z: 1},
		Fovy:       float32(a.opts.FOVDegrees),
		Projection: rl.CameraPerspective,
	}
	a.updateCamera()

	a.createFloor()
	a.meshLoaded = true
	return nil
}

// UpdateScene implements viewer.Renderer: resample the floor reflection
// from a viewpoint mirrored across the ground plane.
func (a *App) UpdateScene() {
	if !a.meshLoaded || !a.hasFloor {
		return
	}

	mirrored := a.camera
	mirrored.Position.Z = -mirrored.Position.Z
	mirrored.Target.Z = -mirrored.Target.Z

	rl.BeginTextureMode(a.reflection)
	rl.ClearBackground(toRaylibColor(a.opts.Floor))
	rl.BeginMode3D(mirrored)
	rl.DrawMesh(a.mesh, a.material, a.transform)
	rl.EndMode3D()
	rl.EndTextureMode()
}

// SubmitFrame implements viewer.Renderer.
func (a *App) SubmitFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(toRaylibColor(a.opts.Background))

	rl.BeginMode3D(a.camera)
	if a.hasFloor {
		floorTint := toRaylibColor(a.opts.Floor)
		floorTint.A = 200
		rl.DrawModel(a.floor, rl.Vector3{}, 1, floorTint)
	}
	if a.meshLoaded {
		rl.DrawMesh(a.mesh, a.material, a.transform)
	}
	rl.EndMode3D()

	rl.DrawText("[F] "+a.opts.FullscreenLabel, 10, 10, 18, rl.Gray)
	rl.EndDrawing()
}

// SetViewportSize implements viewer.Renderer. Fullscreen sizes are owned
// by the window system; only windowed restores resize explicitly.
func (a *App) SetViewportSize(width, height int) {
	if a.fullscreen {
		return
	}
	if rl.GetScreenWidth() != width || rl.GetScreenHeight() != height {
		rl.SetWindowSize(width, height)
	}
}

// SetProjection implements viewer.Renderer. raylib derives the projection
// matrix from the framebuffer each frame; the last valid aspect is kept so
// a skipped recompute leaves the projection untouched.
func (a *App) SetProjection(aspect float64) {
	a.aspect = aspect
}

func (a *App) createFloor() {
	if a.hasFloor {
		return
	}
	a.reflection = rl.LoadRenderTexture(reflectionResolution, reflectionResolution)

	extent := float32(framing.NormalizedSize) * 3
	a.floor = rl.LoadModelFromMesh(rl.GenMeshPlane(extent, extent, 1, 1))
	// GenMeshPlane lies in the XZ plane; rotate it onto the XY ground
	// plane at z=0.
	a.floor.Transform = rl.MatrixRotateX(math.Pi / 2)
	rl.SetMaterialTexture(a.floor.Materials, rl.MapDiffuse, a.reflection.Texture)
	a.hasFloor = true
}

func (a *App) unloadScene() {
	if a.meshLoaded {
		rl.UnloadMesh(&a.mesh)
		a.meshLoaded = false
		a.model = nil
	}
	if a.hasFloor {
		rl.UnloadModel(a.floor)
		rl.UnloadRenderTexture(a.reflection)
		a.hasFloor = false
	}
}

// drawIdleFrame keeps the window pumped while the render loop is idle or
// paused.
func (a *App) drawIdleFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(toRaylibColor(a.opts.Background))
	if a.loadErr != nil {
		rl.DrawText("failed to load model: "+a.loadErr.Error(), 10, 10, 18, rl.Red)
	} else if !a.meshLoaded {
		rl.DrawText("loading model...", 10, 10, 18, rl.Gray)
	}
	rl.EndDrawing()
}

// meshToRaylib converts a decoded mesh into a raylib mesh with baked
// diffuse lighting and uploads it to the GPU.
func meshToRaylib(model *stl.Mesh, modelColor color.RGBA) rl.Mesh {
	triangleCount := model.TriangleCount()
	vertexCount := triangleCount * 3

	mesh := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	colors := make([]uint8, vertexCount*4)

	lightDir := geometry.NewVector3(-0.5, -0.5, -1.0).Normalize()

	idx := 0
	for _, triangle := range model.Triangles {
		normal := triangle.Normal
		if normal.Length() == 0 {
			normal = triangle.CalculateNormal()
		}

		// Diffuse shading baked into vertex colors: 30% ambient floor.
		intensity := math.Max(0.3, -normal.Dot(lightDir))
		r := uint8(float64(modelColor.R) * intensity)
		g := uint8(float64(modelColor.G) * intensity)
		b := uint8(float64(modelColor.B) * intensity)

		for _, vertex := range []geometry.Vector3{triangle.V1, triangle.V2, triangle.V3} {
			vertices[idx*3+0] = float32(vertex.X)
			vertices[idx*3+1] = float32(vertex.Y)
			vertices[idx*3+2] = float32(vertex.Z)
			normals[idx*3+0] = float32(normal.X)
			normals[idx*3+1] = float32(normal.Y)
			normals[idx*3+2] = float32(normal.Z)
			colors[idx*4+0] = r
			colors[idx*4+1] = g
			colors[idx*4+2] = b
			colors[idx*4+3] = 255
			idx++
		}
	}

	if len(vertices) > 0 {
		mesh.Vertices = &vertices[0]
		mesh.Normals = &normals[0]
		mesh.Colors = &colors[0]
	}

	rl.UploadMesh(&mesh, false)
	return mesh
}
