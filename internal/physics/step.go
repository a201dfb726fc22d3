package physics

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sim-maps/internal/sensor"
)

// FatalCallback is invoked when the simulation reaches an unrecoverable state.
type FatalCallback func(err error)

var fatal FatalCallback = func(err error) {
	slog.Error("physics: fatal", slog.String("err", err.Error()))
	panic(err)
}

// SetFatalCallback replaces the process-wide fatal handler. The default logs and panics.
func SetFatalCallback(cb FatalCallback) {
	if cb != nil {
		fatal = cb
	}
}

// Integrate advances the world by one time step: robots run their PD controllers, dynamic
// bodies get gravity and explicit Euler integration, then terrain contact and pairwise box
// push-apart are resolved. A non-finite state triggers the fatal callback.
func (w *World) Integrate() {
	dt := w.timeStep
	objs := w.Objects()

	for _, o := range objs {
		if o.Kind == KindArticulated {
			ground := func(x, y float64) float64 {
				z, _ := w.TerrainHeight(x, y)
				return z
			}
			if !o.Robot.Step(dt, w.Gravity[2], ground) {
				fatal(fmt.Errorf("physics: robot %s diverged at t=%.4f", o.Robot.Name(), w.worldTime))
				return
			}
			o.Position = o.Robot.BasePosition()
			o.Orientation = o.Robot.BaseOrientation()
			continue
		}
		if !o.Moves() {
			continue
		}
		for i := 0; i < 3; i++ {
			o.Velocity[i] += w.Gravity[i] * dt
			o.Position[i] += o.Velocity[i] * dt
		}
		w.resolveTerrain(o, dt)
	}

	w.resolvePairs(objs)

	for _, o := range objs {
		for i := 0; i < 3; i++ {
			if math.IsNaN(o.Position[i]) || math.IsInf(o.Position[i], 0) {
				fatal(fmt.Errorf("physics: %s %s left the finite world at t=%.4f", o.Kind, o.Handle, w.worldTime))
				return
			}
		}
	}
	w.UpdateSensors(sensor.SourceEngine)
	w.worldTime += dt
	w.steps++
}

// resolveTerrain keeps o on top of the terrain surface under it, bouncing with the material
// pair restitution (above the pair's threshold speed) and slowing planar motion by friction.
func (w *World) resolveTerrain(o *Object, dt float64) {
	floor, mat := w.TerrainHeight(o.Position[0], o.Position[1])
	if math.IsInf(floor, -1) {
		return
	}
	bottom := o.Position[2] - o.HalfExtents[2]
	if bottom >= floor {
		return
	}
	o.Position[2] = floor + o.HalfExtents[2]
	pair := w.Materials.Lookup(o.Material, mat)
	if vz := o.Velocity[2]; vz < 0 {
		if -vz > pair.Threshold {
			o.Velocity[2] = -vz * pair.Restitution
		} else {
			o.Velocity[2] = 0
		}
	}
	speed := math.Hypot(o.Velocity[0], o.Velocity[1])
	if speed == 0 {
		return
	}
	slow := pair.Friction * math.Abs(w.Gravity[2]) * dt
	scale := math.Max(0, speed-slow) / speed
	o.Velocity[0] *= scale
	o.Velocity[1] *= scale
}

// resolvePairs pushes overlapping bodies apart along the axis of minimum penetration.
// Dynamic pairs split the correction by mass; a static or kinematic side does not move.
func (w *World) resolvePairs(objs []*Object) {
	bodies := objs[:0:0]
	for _, o := range objs {
		if o.IsTerrain() || o.Kind == KindArticulated {
			continue
		}
		bodies = append(bodies, o)
	}
	for i := 0; i < len(bodies); i++ {
		bi := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			iFixed, jFixed := !bi.Moves(), !bj.Moves()
			if iFixed && jFixed {
				continue
			}
			boxI, boxJ := bodyBox(bi), bodyBox(bj)
			if !rl.CheckCollisionBoxes(boxI, boxJ) {
				continue
			}
			depth, axis := penetrationAxis(boxI, boxJ)
			if axis < 0 {
				continue
			}
			// Push bi toward the negative side when it sits below/behind bj on that axis.
			sign := 1.0
			if bi.Position[axis] < bj.Position[axis] {
				sign = -1.0
			}
			var moveI, moveJ float64
			switch {
			case iFixed:
				moveJ = -sign * depth
			case jFixed:
				moveI = sign * depth
			default:
				total := bi.Mass + bj.Mass
				if total <= 0 {
					moveI = sign * depth / 2
					moveJ = -sign * depth / 2
				} else {
					moveI = sign * depth * (bj.Mass / total)
					moveJ = -sign * depth * (bi.Mass / total)
				}
			}
			bi.Position[axis] += moveI
			bj.Position[axis] += moveJ
			if !iFixed {
				bi.Velocity[axis] = 0
			}
			if !jFixed {
				bj.Velocity[axis] = 0
			}
		}
	}
}
