// Package pipeline turns a rotated mesh into screen-space triangles: each
// face is rotated, moved into camera space, optionally back-face culled, and
// perspective projected onto the framebuffer.
package pipeline

import (
	"golang.org/x/sync/errgroup"

	"soft3d/internal/math3d"
	"soft3d/internal/mesh"
)

// NearZ is the smallest camera-space depth a vertex may have to be
// projected. Faces with any vertex at or in front of it are dropped.
const NearZ = 1e-6

type CullMode int

const (
	CullNone CullMode = iota
	CullBackface
)

func (c CullMode) String() string {
	switch c {
	case CullNone:
		return "none"
	case CullBackface:
		return "backface"
	}
	return "unknown"
}

// Camera looks down +z from Position. Only translation is supported.
type Camera struct {
	Position math3d.Vec3
}

// DefaultCamera sits five units in front of the model origin.
var DefaultCamera = Camera{Position: math3d.Vec3{Z: -5}}

// Params are the per-frame inputs to Process.
type Params struct {
	Camera Camera
	// FOV scales camera-space x/y before the perspective divide.
	FOV    float64
	Cull   CullMode
	Width  int
	Height int
	// Workers > 1 transforms faces concurrently, at most Workers chunks at
	// a time. Output order is unchanged.
	Workers int
}

// Triangle is a projected face ready for the rasterizer.
type Triangle struct {
	Points [3]math3d.Vec2
	Color  uint32
}

// ChunkSize is the number of faces one goroutine transforms. Meshes with
// no more faces than this are always processed serially.
const ChunkSize = 64

// Process runs every face of m through rotate → translate → cull → project,
// returning the survivors in face order.
func Process(m *mesh.Mesh, p Params) []Triangle {
	if p.Workers > 1 && len(m.Faces) > ChunkSize {
		return processParallel(m, p)
	}
	out := make([]Triangle, 0, len(m.Faces))
	for i := range m.Faces {
		if tri, ok := project(m, i, p); ok {
			out = append(out, tri)
		}
	}
	return out
}

// processParallel splits faces into ChunkSize runs, at most p.Workers in
// flight, and concatenates the runs in order.
func processParallel(m *mesh.Mesh, p Params) []Triangle {
	n := len(m.Faces)
	parts := make([][]Triangle, (n+ChunkSize-1)/ChunkSize)

	var g errgroup.Group
	g.SetLimit(p.Workers)
	for c := range parts {
		c := c // per-iteration copy; go.mod targets go1.21 loop semantics
		lo, hi := c*ChunkSize, min((c+1)*ChunkSize, n)
		g.Go(func() error {
			part := make([]Triangle, 0, hi-lo)
			for i := lo; i < hi; i++ {
				if tri, ok := project(m, i, p); ok {
					part = append(part, tri)
				}
			}
			parts[c] = part
			return nil
		})
	}
	g.Wait()

	out := make([]Triangle, 0, n)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}

func project(m *mesh.Mesh, i int, p Params) (Triangle, bool) {
	var cam [3]math3d.Vec3
	for j, v := range m.FaceVertices(i) {
		cam[j] = v.Rotate(m.Rotation).Sub(p.Camera.Position)
	}

	if p.Cull == CullBackface && BackFacing(cam[0], cam[1], cam[2], math3d.Vec3{}) {
		return Triangle{}, false
	}

	tri := Triangle{Color: m.Faces[i].Color}
	half := math3d.Vec2{X: float64(p.Width) / 2, Y: float64(p.Height) / 2}
	for j, v := range cam {
		if v.Z <= NearZ {
			return Triangle{}, false
		}
		tri.Points[j] = Project(v, p.FOV).Add(half)
	}
	return tri, true
}

// Project is the perspective divide scaled by fov. v.Z must be positive.
func Project(v math3d.Vec3, fov float64) math3d.Vec2 {
	return math3d.Vec2{
		X: fov * v.X / v.Z,
		Y: fov * v.Y / v.Z,
	}
}

// BackFacing reports whether triangle abc, given in camera space, faces
// away from eye. Triangles with no defined normal are never back-facing.
func BackFacing(a, b, c, eye math3d.Vec3) bool {
	ab, ok1 := a.Sub(b).Unit()
	ac, ok2 := a.Sub(c).Unit()
	if !ok1 || !ok2 {
		return false
	}
	normal, ok := ab.Cross(ac).Unit()
	if !ok {
		return false
	}
	return normal.Dot(eye.Sub(a)) < 0
}
