package asset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hschendel/stl"

	"soft3d/internal/math3d"
	"soft3d/internal/mesh"
)

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJ(t *testing.T) {
	src := `# comment
o thing
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1 2 3
f 1/1/1 3/1/1 4/1/1
f -4//1 -3//1 -2//1 -1//1
`
	m, err := Load(writeFile(t, "quad.obj", src))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 4 {
		t.Fatalf("%d vertices", len(m.Vertices))
	}
	want := []mesh.Face{
		{A: 1, B: 2, C: 3},
		{A: 1, B: 3, C: 4},
		{A: 1, B: 2, C: 3},
		{A: 1, B: 3, C: 4},
	}
	if len(m.Faces) != len(want) {
		t.Fatalf("%d faces, want %d", len(m.Faces), len(want))
	}
	for i, f := range m.Faces {
		if f.A != want[i].A || f.B != want[i].B || f.C != want[i].C {
			t.Errorf("face %d = %+v, want %+v", i, f, want[i])
		}
		if f.Color != mesh.DefaultColor {
			t.Errorf("face %d color %#x", i, f.Color)
		}
	}
	if m.Vertices[2] != (math3d.Vec3{X: 1, Y: 1}) {
		t.Errorf("vertex 3 = %v", m.Vertices[2])
	}
}

func TestLoadOBJErrors(t *testing.T) {
	cases := []struct {
		name, src string
	}{
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"face before vertices", "f 1 2 3\n"},
		{"short vertex", "v 1 2\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := Load(writeFile(t, "bad.obj", c.src))
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("err = %v, want %v", err, ErrCorrupt)
			}
			if m != nil {
				t.Error("mesh returned with error")
			}
		})
	}

	// a two-corner face yields no triangle
	m, err := Load(writeFile(t, "line.obj", "v 0 0 0\nv 1 0 0\nf 1 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Faces) != 0 {
		t.Errorf("%d faces from a two-corner face", len(m.Faces))
	}
}

func TestLoadPLY(t *testing.T) {
	src := `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 4
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
0 0 1
3 0 2 1
3 0 1 3
3 0 3 2
3 1 2 3
`
	m, err := Load(writeFile(t, "tetra.ply", src))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 4 || len(m.Faces) != 4 {
		t.Fatalf("%d vertices, %d faces, want 4 and 4", len(m.Vertices), len(m.Faces))
	}
	got := m.FaceVertices(3)
	want := [3]math3d.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	if got != want {
		t.Errorf("last face %v, want %v", got, want)
	}

	if _, err := Load(writeFile(t, "bad.ply", src[:len(src)-4]+"9 3\n")); !errors.Is(err, ErrCorrupt) {
		t.Errorf("index past end: err = %v", err)
	}
}

func TestLoadCubeAsset(t *testing.T) {
	m, err := Load(filepath.Join("..", "..", "assets", "cube.obj"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 8 || len(m.Faces) != 12 {
		t.Fatalf("cube.obj: %d vertices, %d faces", len(m.Vertices), len(m.Faces))
	}
	for i := range m.Faces {
		v := m.FaceVertices(i)
		n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
		if n.Dot(v[0]) <= 0 {
			t.Errorf("face %d normal %v points inward", i, n)
		}
	}
}

func testSolid() *stl.Solid {
	// a tetrahedron; corners repeat across triangles
	p := [4]stl.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	tri := func(a, b, c int) stl.Triangle {
		return stl.Triangle{Vertices: [3]stl.Vec3{p[a], p[b], p[c]}}
	}
	return &stl.Solid{
		Name: "tetra",
		Triangles: []stl.Triangle{
			tri(0, 2, 1),
			tri(0, 1, 3),
			tri(0, 3, 2),
			tri(1, 2, 3),
		},
	}
}

func TestLoadSTL(t *testing.T) {
	for _, ascii := range []bool{false, true} {
		solid := testSolid()
		solid.IsAscii = ascii
		var buf bytes.Buffer
		if err := solid.WriteAll(&buf); err != nil {
			t.Fatal(err)
		}
		m, err := LoadSTL(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ascii=%t: %v", ascii, err)
		}
		if len(m.Vertices) != 4 || len(m.Faces) != 4 {
			t.Errorf("ascii=%t: %d vertices, %d faces, want 4 and 4", ascii, len(m.Vertices), len(m.Faces))
		}
		f := m.Faces[3]
		got := [3]math3d.Vec3{m.Vertices[f.A-1], m.Vertices[f.B-1], m.Vertices[f.C-1]}
		want := [3]math3d.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
		if got != want {
			t.Errorf("ascii=%t: last face %v, want %v", ascii, got, want)
		}
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	stlPath := filepath.Join(dir, "tetra.STL")
	if err := testSolid().WriteFile(stlPath); err != nil {
		t.Fatal(err)
	}
	if m, err := Load(stlPath); err != nil || len(m.Faces) != 4 {
		t.Errorf("Load(%s) = %v", stlPath, err)
	}

	if _, err := Load(writeFile(t, "mesh.3mf", "")); !errors.Is(err, ErrFormat) {
		t.Errorf("3mf: err = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing: err = %v", err)
	}
}
