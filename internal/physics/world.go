package physics

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/google/uuid"

	"sim-maps/internal/material"
	"sim-maps/internal/robot"
	"sim-maps/internal/terrain"
)

// ErrNoSuchObject is returned for handles that are not (or no longer) in the world.
var ErrNoSuchObject = errors.New("no such object")

// DefaultTimeStep is the step size of a new world, in seconds.
const DefaultTimeStep = 0.001

// meshHalfExtent is the contact half size of a mesh body per unit of scale. Mesh geometry
// is not loaded, so meshes collide as boxes.
const meshHalfExtent = 5.0

var activationKey string

// SetActivationKey reads the license key file once at startup. A missing file is an error
// the caller may choose to ignore; the reference engine does not enforce licensing.
func SetActivationKey(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("physics: activation key: %w", err)
	}
	activationKey = strings.TrimSpace(string(data))
	return nil
}

// Activated reports whether an activation key has been loaded.
func Activated() bool { return activationKey != "" }

// World owns every object of a simulation and advances them with Integrate.
// A World is not safe for concurrent use; the visualization server serializes access.
type World struct {
	Gravity   [3]float64
	timeStep  float64
	worldTime float64
	steps     int64
	objects   map[Handle]*Object
	order     []Handle
	Materials *material.Table
}

// NewWorld returns an empty world with gravity (0, 0, -9.81) and DefaultTimeStep.
func NewWorld() *World {
	return &World{
		Gravity:   [3]float64{0, 0, -9.81},
		timeStep:  DefaultTimeStep,
		objects:   make(map[Handle]*Object),
		Materials: material.NewTable(),
	}
}

// SetTimeStep sets the integration step in seconds. Non-positive values are ignored.
func (w *World) SetTimeStep(dt float64) {
	if dt > 0 {
		w.timeStep = dt
	}
}

// TimeStep returns the integration step in seconds.
func (w *World) TimeStep() float64 { return w.timeStep }

// WorldTime returns the simulated time in seconds.
func (w *World) WorldTime() float64 { return w.worldTime }

// Steps returns the number of completed Integrate calls.
func (w *World) Steps() int64 { return w.steps }

// SetMaterialPairProp sets contact properties between materials a and b.
func (w *World) SetMaterialPairProp(a, b string, friction, restitution, threshold float64) {
	w.Materials.Set(a, b, material.Pair{Friction: friction, Restitution: restitution, Threshold: threshold})
}

// SetDefaultMaterial sets the contact properties used for unconfigured pairs.
func (w *World) SetDefaultMaterial(friction, restitution, threshold float64) {
	w.Materials.SetDefault(material.Pair{Friction: friction, Restitution: restitution, Threshold: threshold})
}

func (w *World) add(o *Object) *Object {
	o.Handle = Handle(uuid.NewString())
	if o.Orientation == ([4]float64{}) {
		o.Orientation = [4]float64{1, 0, 0, 0}
	}
	w.objects[o.Handle] = o
	w.order = append(w.order, o.Handle)
	return o
}

// AddGround adds an infinite horizontal plane at height z.
func (w *World) AddGround(z float64, mat string) *Object {
	return w.add(&Object{Kind: KindGround, Name: "ground", Material: mat, BodyType: Static, GroundZ: z, Position: [3]float64{0, 0, z}})
}

// AddHeightMap adds terrain. The world keeps the pointer, so later hm.Update calls take
// effect immediately.
func (w *World) AddHeightMap(hm *terrain.HeightMap, mat string) *Object {
	return w.add(&Object{
		Kind:      KindHeightMap,
		Name:      "heightmap",
		Material:  mat,
		BodyType:  Static,
		HeightMap: hm,
		Position:  [3]float64{hm.CenterX, hm.CenterY, 0},
	})
}

// AddBox adds a box with full side lengths x, y, z.
func (w *World) AddBox(x, y, z, mass float64, mat string) *Object {
	return w.add(&Object{
		Kind:        KindBox,
		Name:        "box",
		Material:    mat,
		Mass:        mass,
		Size:        [3]float64{x, y, z},
		HalfExtents: [3]float64{x / 2, y / 2, z / 2},
	})
}

// AddSphere adds a sphere of the given radius.
func (w *World) AddSphere(radius, mass float64, mat string) *Object {
	return w.add(&Object{
		Kind:        KindSphere,
		Name:        "sphere",
		Material:    mat,
		Mass:        mass,
		Size:        [3]float64{radius, 0, 0},
		HalfExtents: [3]float64{radius, radius, radius},
	})
}

// AddCylinder adds an upright cylinder (axis along Z).
func (w *World) AddCylinder(radius, height, mass float64, mat string) *Object {
	return w.add(&Object{
		Kind:        KindCylinder,
		Name:        "cylinder",
		Material:    mat,
		Mass:        mass,
		Size:        [3]float64{radius, height, 0},
		HalfExtents: [3]float64{radius, radius, height / 2},
	})
}

// AddMesh adds a mesh body. The file is recorded for the visualizer only.
func (w *World) AddMesh(path string, mass, scale float64, mat string) *Object {
	h := meshHalfExtent * scale
	return w.add(&Object{
		Kind:        KindMesh,
		Name:        "mesh",
		Material:    mat,
		Mass:        mass,
		MeshPath:    path,
		MeshScale:   scale,
		HalfExtents: [3]float64{h, h, h},
	})
}

// AddArticulatedSystem adds the robot described by path (see robot.Lookup).
func (w *World) AddArticulatedSystem(path string) (*Object, error) {
	desc, err := robot.Lookup(path)
	if err != nil {
		return nil, fmt.Errorf("physics: %w", err)
	}
	a := robot.New(desc)
	return w.add(&Object{
		Kind:        KindArticulated,
		Name:        desc.Model,
		Material:    "steel",
		Mass:        desc.Mass,
		HalfExtents: desc.HalfExtents,
		Robot:       a,
	}), nil
}

// RemoveObject deletes the object. Removing an unknown handle returns ErrNoSuchObject.
func (w *World) RemoveObject(h Handle) error {
	if _, ok := w.objects[h]; !ok {
		return fmt.Errorf("physics: remove %s: %w", h, ErrNoSuchObject)
	}
	delete(w.objects, h)
	for i, oh := range w.order {
		if oh == h {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// Object returns the object for h.
func (w *World) Object(h Handle) (*Object, bool) {
	o, ok := w.objects[h]
	return o, ok
}

// ObjectByName returns the first object with the given name. Robots are matched by their
// robot name.
func (w *World) ObjectByName(name string) (*Object, bool) {
	for _, h := range w.order {
		o := w.objects[h]
		if o.Name == name || (o.Robot != nil && o.Robot.Name() == name) {
			return o, true
		}
	}
	return nil, false
}

// Objects returns all objects in insertion order.
func (w *World) Objects() []*Object {
	out := make([]*Object, 0, len(w.order))
	for _, h := range w.order {
		out = append(out, w.objects[h])
	}
	return out
}

// Len returns the number of objects.
func (w *World) Len() int { return len(w.order) }

// TerrainHeight returns the highest terrain surface under (x, y) and its material.
// With no terrain under the point it returns -Inf.
func (w *World) TerrainHeight(x, y float64) (float64, string) {
	best := math.Inf(-1)
	mat := ""
	for _, h := range w.order {
		o := w.objects[h]
		var z float64
		switch o.Kind {
		case KindGround:
			z = o.GroundZ
		case KindHeightMap:
			if !o.HeightMap.Contains(x, y) {
				continue
			}
			z = o.HeightMap.Height(x, y)
		default:
			continue
		}
		if z > best {
			best, mat = z, o.Material
		}
	}
	return best, mat
}
