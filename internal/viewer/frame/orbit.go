package frame

import "github.com/chewxy/math32"

// Orbit is a camera circling a target. Yaw and Pitch are radians; Pitch is clamped so the
// camera never flips over the pole.
type Orbit struct {
	Yaw      float32
	Pitch    float32
	Distance float32
}

const (
	minDistance = 1
	maxDistance = 500
	maxPitch    = 1.5
)

// DefaultOrbit looks down at the target from behind and above.
func DefaultOrbit() Orbit {
	return Orbit{Yaw: math32.Pi / 4, Pitch: 0.5, Distance: 12}
}

// Rotate turns the camera by the given deltas.
func (o *Orbit) Rotate(dYaw, dPitch float32) {
	o.Yaw += dYaw
	o.Pitch = math32.Max(-maxPitch, math32.Min(maxPitch, o.Pitch+dPitch))
}

// Zoom scales the distance by factor, keeping it within bounds.
func (o *Orbit) Zoom(factor float32) {
	o.Distance = math32.Max(minDistance, math32.Min(maxDistance, o.Distance*factor))
}

// Eye returns the camera position for target.
func (o Orbit) Eye(target [3]float32) [3]float32 {
	cp := math32.Cos(o.Pitch)
	return [3]float32{
		target[0] + o.Distance*cp*math32.Cos(o.Yaw),
		target[1] + o.Distance*math32.Sin(o.Pitch),
		target[2] + o.Distance*cp*math32.Sin(o.Yaw),
	}
}
