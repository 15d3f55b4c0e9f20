// Package mesh holds triangle meshes as loaded from an asset: an ordered
// vertex list, faces referencing it with 1-based indices, and the rotation
// the frame loop accumulates.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"soft3d/internal/math3d"
)

var (
	ErrNoVertices = errors.New("mesh has faces but no vertices")
	ErrFaceIndex  = errors.New("face vertex index out of range")
)

// DefaultColor is used by loaders that carry no per-face color.
const DefaultColor uint32 = 0xFFFFFFFF

// Face is a triangle referencing Mesh.Vertices by 1-based index.
type Face struct {
	A, B, C int
	Color   uint32 // 0xAARRGGBB
}

type Mesh struct {
	Vertices []math3d.Vec3
	Faces    []Face
	Rotation math3d.Vec3 // radians per axis
}

// New validates faces against vertices and returns a mesh owning both
// slices. Out-of-range indices are rejected here so the per-frame pipeline
// never has to check them.
func New(vertices []math3d.Vec3, faces []Face) (*Mesh, error) {
	if len(faces) > 0 && len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	n := len(vertices)
	for i, f := range faces {
		for _, idx := range [3]int{f.A, f.B, f.C} {
			if idx < 1 || idx > n {
				return nil, fmt.Errorf("face %d: index %d not in [1,%d]: %w", i, idx, n, ErrFaceIndex)
			}
		}
	}
	return &Mesh{Vertices: vertices, Faces: faces}, nil
}

// FaceVertices resolves the three corners of face i.
func (m *Mesh) FaceVertices(i int) [3]math3d.Vec3 {
	f := m.Faces[i]
	return [3]math3d.Vec3{
		m.Vertices[f.A-1],
		m.Vertices[f.B-1],
		m.Vertices[f.C-1],
	}
}

// Rotate adds delta to the accumulated rotation, wrapping each axis into
// [0, 2π) so long sessions do not lose precision.
func (m *Mesh) Rotate(delta math3d.Vec3) {
	m.Rotation = math3d.Vec3{
		X: wrapAngle(m.Rotation.X + delta.X),
		Y: wrapAngle(m.Rotation.Y + delta.Y),
		Z: wrapAngle(m.Rotation.Z + delta.Z),
	}
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Bounds returns the axis-aligned box enclosing all vertices in model space.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	inf := math.Inf(1)
	b := r3.Box{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
	for _, v := range m.Vertices {
		b.Min = r3.Vec{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)}
	}
	return b
}

// Radius is the largest distance of any vertex from the model origin.
func (m *Mesh) Radius() float64 {
	var r float64
	for _, v := range m.Vertices {
		r = math.Max(r, r3.Norm(r3.Vec{X: v.X, Y: v.Y, Z: v.Z}))
	}
	return r
}
