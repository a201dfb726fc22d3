package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sim-maps/internal/robot"
	"sim-maps/internal/terrain"
)

// Handle identifies an object in a World. Handles are opaque and never reused.
type Handle string

// Kind is the shape of an object.
type Kind int

const (
	KindGround Kind = iota
	KindHeightMap
	KindBox
	KindSphere
	KindCylinder
	KindMesh
	KindArticulated
)

var kindNames = [...]string{"ground", "heightmap", "box", "sphere", "cylinder", "mesh", "articulated"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// BodyType controls how the integrator treats an object.
// Static bodies never move. Kinematic bodies move only when positioned by the caller
// and push dynamic bodies without being pushed back.
type BodyType int

const (
	Dynamic BodyType = iota
	Static
	Kinematic
)

func (b BodyType) String() string {
	switch b {
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	}
	return "dynamic"
}

// Object is anything placed in a World: terrain, a single rigid body or an articulated robot.
// Position is the body center; Orientation is a unit quaternion (w, x, y, z). HalfExtents is
// the axis-aligned box used for contact and is not rotated with the body.
type Object struct {
	Handle      Handle
	Kind        Kind
	Name        string
	Appearance  string
	Material    string
	BodyType    BodyType
	Mass        float64
	Position    [3]float64
	Orientation [4]float64
	Velocity    [3]float64
	HalfExtents [3]float64
	// Size holds the shape parameters: box (x, y, z), sphere (r, 0, 0), cylinder (r, h, 0).
	Size [3]float64

	MeshPath  string
	MeshScale float64

	GroundZ   float64
	HeightMap *terrain.HeightMap
	Robot     *robot.Articulated
}

// SetPosition moves the body center.
func (o *Object) SetPosition(x, y, z float64) {
	o.Position = [3]float64{x, y, z}
}

// SetOrientation sets the quaternion (w, x, y, z), normalizing it.
func (o *Object) SetOrientation(q [4]float64) {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		o.Orientation = [4]float64{1, 0, 0, 0}
		return
	}
	o.Orientation = [4]float64{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// SetAxisAngle orients the body by a rotation of angle radians around axis.
func (o *Object) SetAxisAngle(axis [3]float64, angle float64) {
	if axis == ([3]float64{}) {
		o.Orientation = [4]float64{1, 0, 0, 0}
		return
	}
	o.SetOrientation(toQuat(rl.QuaternionFromAxisAngle(vec3(axis), float32(angle))))
}

// SetRotationMatrix orients the body by a row-major 3x3 rotation matrix.
func (o *Object) SetRotationMatrix(m [9]float64) {
	o.SetOrientation(toQuat(rl.QuaternionFromMatrix(rowMajor(m))))
}

// SetAppearance sets the visual material name (e.g. "red", "hidden").
func (o *Object) SetAppearance(a string) { o.Appearance = a }

// SetBodyType changes how the body is integrated.
func (o *Object) SetBodyType(t BodyType) { o.BodyType = t }

// SetLinearVelocity sets the body velocity.
func (o *Object) SetLinearVelocity(v [3]float64) { o.Velocity = v }

// SetName names the object.
func (o *Object) SetName(n string) { o.Name = n }

// IsTerrain reports whether the object is a ground plane or height map.
func (o *Object) IsTerrain() bool {
	return o.Kind == KindGround || o.Kind == KindHeightMap
}

// Moves reports whether the integrator advances the object.
func (o *Object) Moves() bool {
	return !o.IsTerrain() && o.Kind != KindArticulated && o.BodyType == Dynamic
}
