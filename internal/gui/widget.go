package gui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/stlview/pkg/framing"
	"github.com/philipparndt/stlview/pkg/geometry"
	"github.com/philipparndt/stlview/pkg/stl"
)

// ModelView is a wireframe view of a committed mesh. Vertices carry the
// framing transform already applied, so the widget only projects.
type ModelView struct {
	widget.BaseWidget

	triangles  []geometry.Triangle
	camera     *orbitCamera
	modelCol   color.RGBA
	fovDegrees float64

	lines     []*canvas.Line
	dragStart *fyne.Position
	dragging  bool
	width     float64
	height    float64
}

// NewModelView creates an empty view; SetModel fills it once a mesh is
// committed.
func NewModelView(modelCol color.RGBA, fovDegrees float64) *ModelView {
	v := &ModelView{modelCol: modelCol, fovDegrees: fovDegrees}
	v.ExtendBaseWidget(v)
	return v
}

// SetModel replaces the displayed mesh. The placement transform is baked
// into the stored vertices here, once, rather than per frame.
func (v *ModelView) SetModel(mesh *stl.Mesh, placement framing.Placement) {
	v.triangles = make([]geometry.Triangle, 0, mesh.TriangleCount())
	for _, t := range mesh.Triangles {
		v.triangles = append(v.triangles, geometry.Triangle{
			Normal: t.Normal,
			V1:     t.V1.Mul(placement.UniformScale).Add(placement.Translation),
			V2:     t.V2.Mul(placement.UniformScale).Add(placement.Translation),
			V3:     t.V3.Mul(placement.UniformScale).Add(placement.Translation),
		})
	}
	v.camera = newOrbitCamera(placement, v.fovDegrees)
	v.render()
}

// Turntable advances a slow azimuth drift while the user is not
// interacting.
func (v *ModelView) Turntable(deltaAzimuth float64) {
	if v.camera == nil || v.dragging {
		return
	}
	v.camera.rotate(0, deltaAzimuth)
	v.render()
}

// render rebuilds the line set from the current camera.
func (v *ModelView) render() {
	if v.camera == nil || v.width <= 0 || v.height <= 0 {
		return
	}

	v.lines = v.lines[:0]
	for _, triangle := range v.triangles {
		vertices := [3]geometry.Vector3{triangle.V1, triangle.V2, triangle.V3}
		for i := 0; i < 3; i++ {
			v1 := vertices[i]
			v2 := vertices[(i+1)%3]

			x1, y1, z1 := v.camera.project(v1, v.width, v.height)
			x2, y2, z2 := v.camera.project(v2, v.width, v.height)

			avgZ := (z1 + z2) / 2
			if v.camera.farPlane > 0 && avgZ > v.camera.farPlane {
				continue
			}

			line := canvas.NewLine(v.depthShade(avgZ))
			line.StrokeWidth = 1
			line.Position1 = fyne.NewPos(float32(x1), float32(y1))
			line.Position2 = fyne.NewPos(float32(x2), float32(y2))
			v.lines = append(v.lines, line)
		}
	}

	v.Refresh()
}

// depthShade fades the model colour towards the far plane.
func (v *ModelView) depthShade(z float64) color.Color {
	fade := 1.0
	if v.camera.farPlane > 0 {
		fade = math.Max(0.25, 1-z/v.camera.farPlane)
	}
	return color.RGBA{
		R: uint8(float64(v.modelCol.R) * fade),
		G: uint8(float64(v.modelCol.G) * fade),
		B: uint8(float64(v.modelCol.B) * fade),
		A: 255,
	}
}

// Dragged orbits the camera.
func (v *ModelView) Dragged(event *fyne.DragEvent) {
	if v.camera != nil && v.dragStart != nil {
		deltaX := float64(event.Position.X - v.dragStart.X)
		deltaY := float64(event.Position.Y - v.dragStart.Y)
		v.camera.rotate(deltaY*0.01, -deltaX*0.01)
		v.render()
	}
	pos := event.Position
	v.dragStart = &pos
	v.dragging = true
}

func (v *ModelView) DragEnd() {
	v.dragStart = nil
	v.dragging = false
}

// Scrolled zooms towards or away from the orbit target.
func (v *ModelView) Scrolled(event *fyne.ScrollEvent) {
	if v.camera == nil {
		return
	}
	v.camera.zoom(-float64(event.Scrolled.DY) * 0.001)
	v.render()
}

// CreateRenderer implements fyne.Widget.
func (v *ModelView) CreateRenderer() fyne.WidgetRenderer {
	return &modelViewRenderer{view: v}
}

type modelViewRenderer struct {
	view    *ModelView
	objects []fyne.CanvasObject
}

func (r *modelViewRenderer) Layout(size fyne.Size) {
	r.view.width = float64(size.Width)
	r.view.height = float64(size.Height)
	r.view.render()
}

func (r *modelViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *modelViewRenderer) Refresh() {
	r.objects = r.objects[:0]
	for _, line := range r.view.lines {
		r.objects = append(r.objects, line)
	}
	canvas.Refresh(r.view)
}

func (r *modelViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *modelViewRenderer) Destroy() {}
