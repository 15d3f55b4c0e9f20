package raster

import (
	"math"

	"soft3d/internal/math3d"
)

// maxCoord bounds the integer coordinates the rasterizer works with so that
// wildly off-screen projections cannot overflow or stall the scan loops.
const maxCoord = 1 << 24

// Mode selects which parts of a triangle get drawn.
type Mode int

const (
	ModeWireframeVertices Mode = iota + 1
	ModeWireframe
	ModeFilled
	ModeFilledWireframe
)

func (m Mode) String() string {
	switch m {
	case ModeWireframeVertices:
		return "wireframe+vertices"
	case ModeWireframe:
		return "wireframe"
	case ModeFilled:
		return "filled"
	case ModeFilledWireframe:
		return "filled+wireframe"
	}
	return "unknown"
}

func (m Mode) Fill() bool      { return m == ModeFilled || m == ModeFilledWireframe }
func (m Mode) Wireframe() bool {
	return m == ModeWireframe || m == ModeWireframeVertices || m == ModeFilledWireframe
}
func (m Mode) Vertices() bool  { return m == ModeWireframeVertices }

// DrawLine draws from (x0, y0) to (x1, y1) with a DDA: it steps once per
// pixel along the longer axis and rounds the other coordinate. Both
// endpoints are always covered.
func (b *Buffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := x1 - x0
	dy := y1 - y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		b.DrawPixel(x0, y0, c)
		return
	}

	xInc := float64(dx) / float64(steps)
	yInc := float64(dy) / float64(steps)

	// Only walk the steps that can land inside the buffer.
	lo, hi := 0.0, float64(steps)
	lo, hi = clipAxis(float64(x0), xInc, b.Width, lo, hi)
	lo, hi = clipAxis(float64(y0), yInc, b.Height, lo, hi)
	if lo > hi {
		return
	}

	for i := int(math.Floor(lo)); i <= int(math.Ceil(hi)); i++ {
		x := float64(x0) + float64(i)*xInc
		y := float64(y0) + float64(i)*yInc
		b.DrawPixel(int(math.Round(x)), int(math.Round(y)), c)
	}
}

// clipAxis narrows the step range [lo, hi] to the steps whose coordinate
// p+i*inc rounds into [0, size).
func clipAxis(p, inc float64, size int, lo, hi float64) (float64, float64) {
	minP, maxP := -0.5, float64(size)-0.5
	if inc == 0 {
		if p < minP || p >= maxP {
			return 1, 0
		}
		return lo, hi
	}
	t0 := (minP - p) / inc
	t1 := (maxP - p) / inc
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return math.Max(lo, t0), math.Min(hi, t1)
}

// DrawTriangle outlines the triangle p0-p1-p2.
func (b *Buffer) DrawTriangle(p0, p1, p2 math3d.Vec2, c Color) {
	a, ok1 := toPoint(p0)
	q, ok2 := toPoint(p1)
	r, ok3 := toPoint(p2)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	b.DrawLine(a.x, a.y, q.x, q.y, c)
	b.DrawLine(q.x, q.y, r.x, r.y, c)
	b.DrawLine(r.x, r.y, a.x, a.y, c)
}

// DrawVertex marks p with a size×size square centred on its nearest pixel.
// Points with a NaN or infinite coordinate are skipped.
func (b *Buffer) DrawVertex(p math3d.Vec2, size int, c Color) {
	if math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return
	}
	q, ok := toPoint(p)
	if !ok {
		return
	}
	b.DrawRect(q.x-size/2, q.y-size/2, size, size, c)
}

type point struct{ x, y int }

func toPoint(v math3d.Vec2) (point, bool) {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) {
		return point{}, false
	}
	return point{clampCoord(v.X), clampCoord(v.Y)}, true
}

func clampCoord(f float64) int {
	return int(math.Round(math.Max(-maxCoord, math.Min(maxCoord, f))))
}

// FillTriangle paints the interior of p0-p1-p2 by splitting it at the
// middle vertex into a flat-bottom and a flat-top half and filling each
// one scanline at a time.
//
//	       p0
//	      /  \
//	     /    \
//	   p1------M
//	     \_     \
//	        \_   \
//	           \_ \
//	              p2
func (b *Buffer) FillTriangle(p0, p1, p2 math3d.Vec2, c Color) {
	a, ok1 := toPoint(p0)
	q, ok2 := toPoint(p1)
	r, ok3 := toPoint(p2)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	a, q, r = sortByY(a, q, r)

	if a.y == r.y {
		// all three on one scanline
		b.DrawLine(min(a.x, q.x, r.x), a.y, max(a.x, q.x, r.x), a.y, c)
		return
	}

	// x of edge a-r at height q.y, by similar triangles
	mx := float64(a.x) + float64(r.x-a.x)*float64(q.y-a.y)/float64(r.y-a.y)

	if q.y != a.y {
		b.fillFlatBottom(a, q, mx, c)
	}
	if r.y != q.y {
		b.fillFlatTop(q, mx, r, c)
	}
}

// sortByY orders three points by ascending y with pairwise swaps; points
// on the same scanline keep their relative order.
func sortByY(a, b, c point) (point, point, point) {
	if a.y > b.y {
		a, b = b, a
	}
	if b.y > c.y {
		b, c = c, b
	}
	if a.y > b.y {
		a, b = b, a
	}
	return a, b, c
}

// fillFlatBottom fills from apex top down to the horizontal edge between
// left and (mx, left.y). left.y must differ from top.y.
func (b *Buffer) fillFlatBottom(top, left point, mx float64, c Color) {
	dy := float64(left.y - top.y)
	inv1 := float64(left.x-top.x) / dy
	inv2 := (mx - float64(top.x)) / dy
	for y := max(top.y, 0); y <= min(left.y, b.Height-1); y++ {
		t := float64(y - top.y)
		xs := float64(top.x) + t*inv1
		xe := float64(top.x) + t*inv2
		b.DrawLine(clampCoord(xs), y, clampCoord(xe), y, c)
	}
}

// fillFlatTop fills from apex bottom up to the horizontal edge between
// left and (mx, left.y). left.y must differ from bottom.y.
func (b *Buffer) fillFlatTop(left point, mx float64, bottom point, c Color) {
	dy := float64(bottom.y - left.y)
	inv1 := float64(bottom.x-left.x) / dy
	inv2 := (float64(bottom.x) - mx) / dy
	for y := min(bottom.y, b.Height-1); y >= max(left.y, 0); y-- {
		t := float64(bottom.y - y)
		xs := float64(bottom.x) - t*inv1
		xe := float64(bottom.x) - t*inv2
		b.DrawLine(clampCoord(xs), y, clampCoord(xe), y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
