// Package asset loads meshes from OBJ, PLY, 3DS and STL files.
package asset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/hschendel/stl"

	"soft3d/internal/math3d"
	"soft3d/internal/mesh"
)

var (
	ErrFormat  = errors.New("unsupported mesh format")
	ErrCorrupt = errors.New("corrupt mesh file")
)

// Load picks a loader from the file extension.
func Load(path string) (*mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		m, err := LoadSTL(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	case ".obj", ".ply", ".3ds":
		return LoadTriangles(path)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrFormat)
}

// LoadTriangles reads an OBJ, PLY or 3DS file with fauxgl and indexes its
// triangles. Polygons are fanned by the reader. Texture coordinates and
// normals are dropped.
func LoadTriangles(path string) (m *mesh.Mesh, err error) {
	// fauxgl indexes its vertex tables without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%s: %w: %v", path, ErrCorrupt, r)
		}
	}()
	fm, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err = fromTriangles(fm.Triangles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func fromTriangles(tris []*fauxgl.Triangle) (*mesh.Mesh, error) {
	var (
		verts []math3d.Vec3
		faces = make([]mesh.Face, 0, len(tris))
		seen  = make(map[fauxgl.Vector]int)
	)
	index := func(v fauxgl.Vector) int {
		if i, ok := seen[v]; ok {
			return i
		}
		verts = append(verts, math3d.Vec3{X: v.X, Y: v.Y, Z: v.Z})
		seen[v] = len(verts)
		return len(verts)
	}
	for _, t := range tris {
		faces = append(faces, mesh.Face{
			A:     index(t.V1.Position),
			B:     index(t.V2.Position),
			C:     index(t.V3.Position),
			Color: mesh.DefaultColor,
		})
	}
	return mesh.New(verts, faces)
}

// LoadSTL reads an ASCII or binary STL solid. STL stores each triangle's
// corners inline, so shared corners are merged into one vertex.
func LoadSTL(r io.ReadSeeker) (*mesh.Mesh, error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var (
		verts []math3d.Vec3
		faces = make([]mesh.Face, 0, len(solid.Triangles))
		seen  = make(map[stl.Vec3]int)
	)
	index := func(v stl.Vec3) int {
		if i, ok := seen[v]; ok {
			return i
		}
		verts = append(verts, math3d.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
		seen[v] = len(verts)
		return len(verts)
	}
	for _, t := range solid.Triangles {
		faces = append(faces, mesh.Face{
			A:     index(t.Vertices[0]),
			B:     index(t.Vertices[1]),
			C:     index(t.Vertices[2]),
			Color: mesh.DefaultColor,
		})
	}
	return mesh.New(verts, faces)
}
