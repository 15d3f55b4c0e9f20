// Package math3d holds the small value-type vector math used by the
// software pipeline. Nothing here allocates or guards against division by
// zero; IEEE-754 semantics apply.
package math3d

import "math"

type Vec2 struct {
	X, Y float64
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Div(k float64) Vec2 { return Vec2{v.X / k, v.Y / k} }
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Length returns the euclidean norm of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }
func (v Vec3) Div(k float64) Vec3 { return Vec3{v.X / k, v.Y / k, v.Z / k} }
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the right-handed cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the euclidean norm of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Normalize divides v by its length. A zero vector yields NaN components;
// use Unit when the input may be degenerate.
func (v Vec3) Normalize() Vec3 { return v.Div(v.Length()) }

// Unit is Normalize with a zero-length check. ok is false when v has no
// direction, in which case the zero vector is returned.
func (v Vec3) Unit() (u Vec3, ok bool) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, false
	}
	return v.Div(l), true
}

// RotateX rotates the vector around the X axis
func (v Vec3) RotateX(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X,
		Y: v.Y*cos - v.Z*sin,
		Z: v.Y*sin + v.Z*cos,
	}
}

// RotateY rotates the vector around the Y axis
func (v Vec3) RotateY(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// RotateZ rotates the vector around the Z axis
func (v Vec3) RotateZ(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
		Z: v.Z,
	}
}

// Rotate applies the per-axis angles in euler as X, then Y, then Z.
// The order is fixed; rotations do not commute.
func (v Vec3) Rotate(euler Vec3) Vec3 {
	return v.RotateX(euler.X).RotateY(euler.Y).RotateZ(euler.Z)
}

// XY drops the Z component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }
