// Package frame turns world state into a renderer-neutral draw list in the viewer's
// Y-up float32 space. It has no graphics dependency so it can be tested headless.
package frame

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/chewxy/math32"

	"sim-maps/internal/physics"
	"sim-maps/internal/terrain"
)

// Shape selects the primitive used to draw an item.
type Shape int

const (
	Cube Shape = iota
	Sphere
	Cylinder
	Model
)

// Item is one body to draw. Position is the body center; Scale is applied to a unit
// primitive (cube side 1, sphere and cylinder diameter 1, cylinder height 1).
type Item struct {
	Shape    Shape
	Name     string
	Position [3]float32
	Scale    [3]float32
	// Axis and Angle (radians) rotate the primitive about its center.
	Axis  [3]float32
	Angle float32
	Color color.RGBA
	Path  string
}

// Terrain is a height map in viewer space.
type Terrain struct {
	Source *terrain.HeightMap
	// Origin is the minimum corner on the ground plane and the lowest height.
	Origin [3]float32
	// Size spans X, height range, and depth.
	Size  [3]float32
	Color color.RGBA
	// Version changes whenever the samples change.
	Version uint64
}

// Frame is everything drawn in one frame.
type Frame struct {
	Items    []Item
	Terrains []Terrain
	// Grounds are the heights of infinite ground planes.
	Grounds []float32
	Focus   [3]float32
	Focused bool
}

// ToView converts a Z-up world vector to the viewer's Y-up space.
func ToView(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[2]), float32(-v[1])}
}

// axisAngle converts a unit quaternion (w, x, y, z) to a viewer-space axis and angle.
func axisAngle(q [4]float64) ([3]float32, float32) {
	w := math32.Max(-1, math32.Min(1, float32(q[0])))
	s := math32.Sqrt(1 - w*w)
	if s < 1e-6 {
		return [3]float32{0, 1, 0}, 0
	}
	axis := ToView([3]float64{q[1], q[2], q[3]})
	for k := range axis {
		axis[k] /= s
	}
	return axis, 2 * float32(math.Acos(float64(w)))
}

// Snapshot builds the frame for w, centring the camera on the object named focus.
// Call it with the world locked.
func Snapshot(w *physics.World, focus string) Frame {
	var f Frame
	for _, o := range w.Objects() {
		if o.Appearance == "hidden" {
			continue
		}
		switch o.Kind {
		case physics.KindGround:
			f.Grounds = append(f.Grounds, float32(o.GroundZ))
			continue
		case physics.KindHeightMap:
			f.Terrains = append(f.Terrains, terrainOf(o))
			continue
		}
		it := itemOf(o)
		f.Items = append(f.Items, it)
		if focus != "" && (o.Name == focus || (o.Robot != nil && o.Robot.Name() == focus)) {
			f.Focus, f.Focused = it.Position, true
		}
	}
	return f
}

func itemOf(o *physics.Object) Item {
	it := Item{Name: o.Name, Color: Palette(o.Appearance)}
	pos := o.Position
	quat := o.Orientation
	switch o.Kind {
	case physics.KindBox:
		it.Shape = Cube
		it.Scale = [3]float32{float32(o.Size[0]), float32(o.Size[2]), float32(o.Size[1])}
	case physics.KindSphere:
		it.Shape = Sphere
		d := float32(2 * o.Size[0])
		it.Scale = [3]float32{d, d, d}
	case physics.KindCylinder:
		it.Shape = Cylinder
		d := float32(2 * o.Size[0])
		it.Scale = [3]float32{d, float32(o.Size[1]), d}
	case physics.KindMesh:
		it.Shape = Model
		it.Path = o.MeshPath
		s := float32(o.MeshScale)
		it.Scale = [3]float32{s, s, s}
	case physics.KindArticulated:
		it.Shape = Cube
		pos = o.Robot.BasePosition()
		quat = o.Robot.BaseOrientation()
		h := o.HalfExtents
		it.Scale = [3]float32{float32(2 * h[0]), float32(2 * h[2]), float32(2 * h[1])}
		if o.Appearance == "" {
			it.Color = Palette("robot")
		}
	}
	it.Position = ToView(pos)
	it.Axis, it.Angle = axisAngle(quat)
	return it
}

func terrainOf(o *physics.Object) Terrain {
	hm := o.HeightMap
	lo, hi := hm.MinMax()
	minX, minY, maxX, maxY := hm.Bounds()
	t := Terrain{
		Source: hm,
		// the viewer's depth axis is -Y, so the minimum corner sits at world maxY
		Origin:  [3]float32{float32(minX), float32(lo), float32(-maxY)},
		Size:    [3]float32{float32(maxX - minX), float32(hi - lo), float32(maxY - minY)},
		Color:   Palette(o.Appearance),
		Version: Version(hm),
	}
	if len(hm.Colors) > 0 {
		t.Color = hm.Colors[len(hm.Colors)/2]
	}
	return t
}

// Version fingerprints the samples and placement of hm.
func Version(hm *terrain.HeightMap) uint64 {
	d := xxhash.New()
	var buf [8]byte
	mix := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	mix(hm.CenterX)
	mix(hm.CenterY)
	mix(hm.XSize)
	mix(hm.YSize)
	for _, v := range hm.Heights {
		mix(v)
	}
	return d.Sum64()
}
