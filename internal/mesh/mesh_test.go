package mesh

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"soft3d/internal/math3d"
)

func TestNewRejectsBadIndices(t *testing.T) {
	verts := []math3d.Vec3{{}, {X: 1}, {Y: 1}}
	cases := []struct {
		name  string
		verts []math3d.Vec3
		faces []Face
		want  error
	}{
		{"ok", verts, []Face{{A: 1, B: 2, C: 3}}, nil},
		{"empty", nil, nil, nil},
		{"zero index", verts, []Face{{A: 0, B: 2, C: 3}}, ErrFaceIndex},
		{"past end", verts, []Face{{A: 1, B: 2, C: 4}}, ErrFaceIndex},
		{"negative", verts, []Face{{A: 1, B: -2, C: 3}}, ErrFaceIndex},
		{"later face", verts, []Face{{A: 1, B: 2, C: 3}, {A: 3, B: 2, C: 9}}, ErrFaceIndex},
		{"no vertices", nil, []Face{{A: 1, B: 1, C: 1}}, ErrNoVertices},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := New(c.verts, c.faces)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
			if c.want != nil && m != nil {
				t.Error("mesh returned alongside error")
			}
		})
	}
}

func TestCube(t *testing.T) {
	m := Cube()
	if len(m.Vertices) != 8 || len(m.Faces) != 12 {
		t.Fatalf("cube has %d vertices, %d faces", len(m.Vertices), len(m.Faces))
	}

	// every face normal must point away from the centre
	for i := range m.Faces {
		v := m.FaceVertices(i)
		a := r3.Vec{X: v[0].X, Y: v[0].Y, Z: v[0].Z}
		b := r3.Vec{X: v[1].X, Y: v[1].Y, Z: v[1].Z}
		c := r3.Vec{X: v[2].X, Y: v[2].Y, Z: v[2].Z}
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		centroid := r3.Scale(1.0/3, r3.Add(a, r3.Add(b, c)))
		if r3.Dot(n, centroid) <= 0 {
			t.Errorf("face %d normal %v points inward", i, n)
		}
	}

	// Cube returns independent copies
	m.Vertices[0].X = 42
	if Cube().Vertices[0].X == 42 {
		t.Error("Cube shares vertex storage between calls")
	}
}

func TestRotateWraps(t *testing.T) {
	m := Cube()
	for i := 0; i < 1000; i++ {
		m.Rotate(math3d.Vec3{X: 0.002, Y: 0.01, Z: -0.004})
	}
	want := math3d.Vec3{X: 2, Y: 10 - 2*math.Pi, Z: 2*math.Pi - 4}
	r := m.Rotation
	if math.Abs(r.X-want.X) > 1e-9 || math.Abs(r.Y-want.Y) > 1e-9 || math.Abs(r.Z-want.Z) > 1e-9 {
		t.Errorf("rotation = %v, want %v", r, want)
	}
	for _, a := range []float64{r.X, r.Y, r.Z} {
		if a < 0 || a >= 2*math.Pi {
			t.Errorf("angle %g not wrapped", a)
		}
	}
}

func TestBounds(t *testing.T) {
	m := Cube()
	b := m.Bounds()
	if b.Min != (r3.Vec{X: -1, Y: -1, Z: -1}) || b.Max != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("bounds = %v", b)
	}
	if r := m.Radius(); math.Abs(r-math.Sqrt(3)) > 1e-12 {
		t.Errorf("radius = %g", r)
	}
	if (&Mesh{}).Bounds() != (r3.Box{}) {
		t.Error("empty mesh bounds not zero")
	}
}
