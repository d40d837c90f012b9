package coverage

import "github.com/Rrisinglight/isabella/internal/geo"

// LayerHandle identifies a drawn overlay so it can be removed later.
type LayerHandle int

// MapLayer is the drawing surface the renderer targets. The terminal map
// view implements it; a browser map would expose the same operations.
type MapLayer interface {
	AddPolygon(ring []geo.Point) LayerHandle
	AddPolyline(points []geo.Point) LayerHandle
	AddMarker(at geo.Point, label string) LayerHandle
	Remove(h LayerHandle)
}

// Renderer replays coverage geometry onto a MapLayer. It remembers the
// handles of the previous draw so every Render fully replaces the prior
// overlays instead of accumulating them.
type Renderer struct {
	layer   MapLayer
	handles []LayerHandle
}

func NewRenderer(layer MapLayer) *Renderer {
	return &Renderer{layer: layer}
}

// Render replaces all overlays with the given geometry.
func (r *Renderer) Render(g Geometry) {
	r.Clear()
	r.handles = append(r.handles,
		r.layer.AddPolygon(g.Ring),
		r.layer.AddPolyline(g.LeftRay[:]),
		r.layer.AddPolyline(g.RightRay[:]),
		r.layer.AddPolyline(g.Heading[:]),
		r.layer.AddMarker(g.Base, "BASE"),
	)
}

// RenderPending draws only the base marker, used between the first and
// second setup clicks while the direction is still unset.
func (r *Renderer) RenderPending(base geo.Point) {
	r.Clear()
	r.handles = append(r.handles, r.layer.AddMarker(base, "BASE?"))
}

// Clear removes everything previously drawn.
func (r *Renderer) Clear() {
	for _, h := range r.handles {
		r.layer.Remove(h)
	}
	r.handles = r.handles[:0]
}
