package mesh

import "soft3d/internal/math3d"

var cubeVertices = []math3d.Vec3{
	{X: -1, Y: -1, Z: -1}, // 1
	{X: -1, Y: 1, Z: -1},  // 2
	{X: 1, Y: 1, Z: -1},   // 3
	{X: 1, Y: -1, Z: -1},  // 4
	{X: 1, Y: 1, Z: 1},    // 5
	{X: 1, Y: -1, Z: 1},   // 6
	{X: -1, Y: 1, Z: 1},   // 7
	{X: -1, Y: -1, Z: 1},  // 8
}

// Corners are ordered so that cross(b-a, c-a) points out of the cube.
var cubeFaces = []Face{
	// front
	{A: 1, B: 2, C: 3, Color: 0xFFFF0000},
	{A: 1, B: 3, C: 4, Color: 0xFFFF0000},
	// right
	{A: 4, B: 3, C: 5, Color: 0xFF00FF00},
	{A: 4, B: 5, C: 6, Color: 0xFF00FF00},
	// back
	{A: 6, B: 5, C: 7, Color: 0xFF0000FF},
	{A: 6, B: 7, C: 8, Color: 0xFF0000FF},
	// left
	{A: 8, B: 7, C: 2, Color: 0xFFFFFF00},
	{A: 8, B: 2, C: 1, Color: 0xFFFFFF00},
	// top
	{A: 2, B: 7, C: 5, Color: 0xFFFF00FF},
	{A: 2, B: 5, C: 3, Color: 0xFFFF00FF},
	// bottom
	{A: 6, B: 8, C: 1, Color: 0xFF00FFFF},
	{A: 6, B: 1, C: 4, Color: 0xFF00FFFF},
}

// Cube returns a fresh 2×2×2 cube centred on the origin: 8 vertices and
// 12 triangles, each side in its own color.
func Cube() *Mesh {
	m, err := New(append([]math3d.Vec3(nil), cubeVertices...), append([]Face(nil), cubeFaces...))
	if err != nil {
		panic(err)
	}
	return m
}
