package ui

import (
	"math"
	"strings"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/Rrisinglight/isabella/internal/coverage"
	"github.com/Rrisinglight/isabella/internal/geo"
	"github.com/charmbracelet/lipgloss"
)

// kmPerDegLat is one degree of latitude on the shared spherical model.
const kmPerDegLat = math.Pi * config.EarthRadiusKm / 180

type overlayKind int

const (
	kindPolygon overlayKind = iota
	kindPolyline
	kindMarker
)

type mapOverlay struct {
	kind   overlayKind
	points []geo.Point
	label  string
}

// MapView rasterizes geo overlays onto a character grid centered on a view
// point. It implements coverage.MapLayer, standing in for the browser map.
// All calls happen on the event-loop goroutine.
type MapView struct {
	center    geo.Point
	hasCenter bool
	spanKm    float64 // ground distance covered by the grid width

	next   coverage.LayerHandle
	layers map[coverage.LayerHandle]mapOverlay
	order  []coverage.LayerHandle
}

func NewMapView() *MapView {
	return &MapView{
		spanKm: config.DefaultRangeKm * 2.5,
		layers: make(map[coverage.LayerHandle]mapOverlay),
	}
}

// SetCenter fixes the view on a point (normally the base point).
func (v *MapView) SetCenter(p geo.Point) {
	v.center = p
	v.hasCenter = true
}

// SetSpanKm adjusts the zoom so the grid width covers km of ground.
func (v *MapView) SetSpanKm(km float64) {
	if km > 0 {
		v.spanKm = km
	}
}

func (v *MapView) add(o mapOverlay) coverage.LayerHandle {
	v.next++
	v.layers[v.next] = o
	v.order = append(v.order, v.next)
	return v.next
}

func (v *MapView) AddPolygon(ring []geo.Point) coverage.LayerHandle {
	return v.add(mapOverlay{kind: kindPolygon, points: ring})
}

func (v *MapView) AddPolyline(points []geo.Point) coverage.LayerHandle {
	return v.add(mapOverlay{kind: kindPolyline, points: points})
}

func (v *MapView) AddMarker(at geo.Point, label string) coverage.LayerHandle {
	return v.add(mapOverlay{kind: kindMarker, points: []geo.Point{at}, label: label})
}

func (v *MapView) Remove(h coverage.LayerHandle) {
	delete(v.layers, h)
	for i, id := range v.order {
		if id == h {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// pointToCell projects a geo point into grid coordinates.
func (v *MapView) pointToCell(p geo.Point, width, height int) (col, row int) {
	dxKm := (p.Lng - v.center.Lng) * kmPerDegLat * math.Cos(v.center.Lat*math.Pi/180)
	dyKm := (p.Lat - v.center.Lat) * kmPerDegLat

	kmPerCol := v.spanKm / float64(width)
	kmPerRow := kmPerCol / config.AspectRatio

	col = width/2 + int(math.Round(dxKm/kmPerCol))
	row = height/2 - int(math.Round(dyKm/kmPerRow))
	return col, row
}

// CellToPoint is the inverse projection, used to turn mouse clicks on the
// map panel into coordinates.
func (v *MapView) CellToPoint(col, row, width, height int) geo.Point {
	kmPerCol := v.spanKm / float64(width)
	kmPerRow := kmPerCol / config.AspectRatio

	dxKm := float64(col-width/2) * kmPerCol
	dyKm := float64(height/2-row) * kmPerRow

	lat := v.center.Lat + dyKm/kmPerDegLat
	lng := v.center.Lng + dxKm/(kmPerDegLat*math.Cos(v.center.Lat*math.Pi/180))
	return geo.Point{Lat: lat, Lng: lng}
}

// cell classes, in paint-priority order (higher wins)
const (
	classEmpty = iota
	classGrid
	classRing
	classRay
	classMarker
	classLabel
)

// Render produces the map grid as a styled string.
func (v *MapView) Render(width, height int) string {
	if width < 10 || height < 5 {
		return ""
	}
	if !v.hasCenter {
		return centeredHint(width, height, "click to set base point")
	}

	chars := make([][]byte, height)
	class := make([][]int, height)
	for r := range chars {
		chars[r] = bytes(' ', width)
		class[r] = make([]int, width)
	}

	// sparse graticule so an empty map still reads as a surface
	for r := 1; r < height; r += 2 {
		for c := (r / 2 * 3) % 4; c < width; c += 8 {
			chars[r][c] = '.'
			class[r][c] = classGrid
		}
	}

	put := func(col, row int, ch byte, cl int) {
		if col < 0 || col >= width || row < 0 || row >= height {
			return
		}
		if cl >= class[row][col] {
			chars[row][col] = ch
			class[row][col] = cl
		}
	}

	for _, id := range v.order {
		o := v.layers[id]
		switch o.kind {
		case kindPolygon:
			v.paintPath(o.points, width, height, classRing, put)
		case kindPolyline:
			v.paintPath(o.points, width, height, classRay, put)
		case kindMarker:
			col, row := v.pointToCell(o.points[0], width, height)
			put(col, row, '+', classMarker)
			for i := 0; i < len(o.label); i++ {
				put(col+2+i, row, o.label[i], classLabel)
			}
		}
	}

	var sb strings.Builder
	for r := 0; r < height; r++ {
		c := 0
		for c < width {
			cl := class[r][c]
			start := c
			for c < width && class[r][c] == cl {
				c++
			}
			seg := string(chars[r][start:c])
			sb.WriteString(styleForClass(cl).Render(seg))
		}
		if r < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (v *MapView) paintPath(points []geo.Point, width, height, cl int, put func(int, int, byte, int)) {
	for i := 0; i+1 < len(points); i++ {
		c0, r0 := v.pointToCell(points[i], width, height)
		c1, r1 := v.pointToCell(points[i+1], width, height)
		paintSegment(c0, r0, c1, r1, cl, put)
	}
}

func paintSegment(c0, r0, c1, r1, cl int, put func(int, int, byte, int)) {
	dc := c1 - c0
	dr := r1 - r0
	steps := maxInt(absInt(dc), absInt(dr))
	ch := segmentChar(dc, dr)
	if steps == 0 {
		put(c0, r0, ch, cl)
		return
	}
	for i := 0; i <= steps; i++ {
		col := c0 + int(math.Round(float64(dc)*float64(i)/float64(steps)))
		row := r0 + int(math.Round(float64(dr)*float64(i)/float64(steps)))
		put(col, row, ch, cl)
	}
}

// segmentChar picks a line character from the segment slope.
func segmentChar(dc, dr int) byte {
	adc, adr := absInt(dc), absInt(dr)
	switch {
	case adr == 0 || adc > 2*adr:
		return '-'
	case adc == 0 || adr > 2*adc:
		return '|'
	case (dc > 0) == (dr > 0):
		return '\\'
	default:
		return '/'
	}
}

func styleForClass(cl int) lipgloss.Style {
	switch cl {
	case classGrid:
		return StyleMapGrid
	case classRing:
		return StyleMapRing
	case classRay:
		return StyleMapHeading
	case classMarker, classLabel:
		return StyleMapMarker
	default:
		return StyleDim
	}
}

func centeredHint(width, height int, hint string) string {
	var sb strings.Builder
	for r := 0; r < height; r++ {
		if r == height/2 {
			pad := (width - len(hint)) / 2
			if pad < 0 {
				pad = 0
			}
			sb.WriteString(strings.Repeat(" ", pad))
			sb.WriteString(StyleDim.Render(hint))
		}
		if r < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func bytes(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
