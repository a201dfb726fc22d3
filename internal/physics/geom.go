package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// State stays float64; boxes and rotations are computed in raylib's float32 types.

func vec3(v [3]float64) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

// toQuat converts a raylib quaternion (x, y, z, w) to the world order (w, x, y, z).
func toQuat(q rl.Quaternion) [4]float64 {
	return [4]float64{float64(q.W), float64(q.X), float64(q.Y), float64(q.Z)}
}

// bodyBox returns the world AABB of o from its center and half extents.
func bodyBox(o *Object) rl.BoundingBox {
	h := o.HalfExtents
	return rl.NewBoundingBox(
		vec3([3]float64{o.Position[0] - h[0], o.Position[1] - h[1], o.Position[2] - h[2]}),
		vec3([3]float64{o.Position[0] + h[0], o.Position[1] + h[1], o.Position[2] + h[2]}),
	)
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) for the
// minimum penetration. If no overlap, returns (0, -1).
func penetrationAxis(a, b rl.BoundingBox) (depth float64, axis int) {
	overlapX := min(a.Max.X, b.Max.X) - max(a.Min.X, b.Min.X)
	overlapY := min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	overlapZ := min(a.Max.Z, b.Max.Z) - max(a.Min.Z, b.Min.Z)
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return 0, -1
	}
	d := overlapX
	axis = 0
	if overlapY < d {
		d = overlapY
		axis = 1
	}
	if overlapZ < d {
		d = overlapZ
		axis = 2
	}
	return float64(d), axis
}

// rowMajor lays a row-major 3x3 rotation into a raylib matrix.
func rowMajor(m [9]float64) rl.Matrix {
	f := func(i int) float32 { return float32(m[i]) }
	return rl.NewMatrix(
		f(0), f(1), f(2), 0,
		f(3), f(4), f(5), 0,
		f(6), f(7), f(8), 0,
		0, 0, 0, 1,
	)
}
