package robot

import (
	"fmt"
	"math"
	"sync"

	"sim-maps/internal/sensor"
)

// jointInertia is the reflected inertia of every joint, in kg*m^2.
const jointInertia = 0.05

// horizontalDamping is the fraction of base planar velocity kept per second when in contact.
const horizontalDamping = 0.2

// Articulated is a floating-base legged robot driven by joint PD control.
// Generalized coordinates are [x y z qw qx qy qz joints...] and velocities
// [vx vy vz wx wy wz joint rates...].
type Articulated struct {
	mu      sync.Mutex
	desc    Description
	name    string
	gc      []float64
	gv      []float64
	gf      []float64
	pGain   []float64
	dGain   []float64
	pTarget []float64
	vTarget []float64
	sensors sensor.Sets
}

// New instantiates a robot at the origin with unit orientation and zero gains.
func New(desc Description) *Articulated {
	a := &Articulated{
		desc:    desc,
		name:    desc.Model,
		gc:      make([]float64, desc.GeneralizedCoordinateDim()),
		gv:      make([]float64, desc.DOF()),
		gf:      make([]float64, desc.DOF()),
		pGain:   make([]float64, desc.DOF()),
		dGain:   make([]float64, desc.DOF()),
		pTarget: make([]float64, desc.GeneralizedCoordinateDim()),
		vTarget: make([]float64, desc.DOF()),
		sensors: make(sensor.Sets),
	}
	a.gc[3] = 1
	copy(a.gc[7:], desc.NominalJoints)
	for _, m := range desc.Mounts {
		a.sensors[m.Name] = &sensor.Set{
			Name:        m.Name,
			Depth:       sensor.NewDepthCamera(m.Width, m.Height),
			Color:       sensor.NewRGBCamera(m.Width, m.Height),
			MountHeight: m.MountHeight,
		}
	}
	return a
}

// Description returns the robot's description.
func (a *Articulated) Description() Description { return a.desc }

// Name returns the robot name, initially the model name.
func (a *Articulated) Name() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name
}

// SetName renames the robot.
func (a *Articulated) SetName(name string) {
	a.mu.Lock()
	a.name = name
	a.mu.Unlock()
}

// DOF returns the generalized velocity dimension.
func (a *Articulated) DOF() int { return a.desc.DOF() }

// GeneralizedCoordinateDim returns the generalized coordinate dimension.
func (a *Articulated) GeneralizedCoordinateDim() int { return a.desc.GeneralizedCoordinateDim() }

// JointNames returns the joint names in coordinate order.
func (a *Articulated) JointNames() []string { return append([]string(nil), a.desc.JointNames...) }

func checkDim(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("robot: %s has %d entries, want %d", what, got, want)
	}
	return nil
}

// SetGeneralizedCoordinate sets the full configuration. The base quaternion is normalized.
func (a *Articulated) SetGeneralizedCoordinate(q []float64) error {
	if err := checkDim("generalized coordinate", len(q), len(a.gc)); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	copy(a.gc, q)
	normalizeQuat(a.gc[3:7])
	return nil
}

// GeneralizedCoordinate returns a copy of the configuration.
func (a *Articulated) GeneralizedCoordinate() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]float64(nil), a.gc...)
}

// SetGeneralizedVelocity sets all generalized velocities.
func (a *Articulated) SetGeneralizedVelocity(v []float64) error {
	if err := checkDim("generalized velocity", len(v), len(a.gv)); err != nil {
		return err
	}
	a.mu.Lock()
	copy(a.gv, v)
	a.mu.Unlock()
	return nil
}

// GeneralizedVelocity returns a copy of the generalized velocities.
func (a *Articulated) GeneralizedVelocity() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]float64(nil), a.gv...)
}

// SetGeneralizedForce sets the external generalized force applied every step.
func (a *Articulated) SetGeneralizedForce(f []float64) error {
	if err := checkDim("generalized force", len(f), len(a.gf)); err != nil {
		return err
	}
	a.mu.Lock()
	copy(a.gf, f)
	a.mu.Unlock()
	return nil
}

// GeneralizedForce returns the force applied in the last step: the external force plus,
// for joints, the PD torque.
func (a *Articulated) GeneralizedForce() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := append([]float64(nil), a.gf...)
	for j := 6; j < len(out); j++ {
		out[j] += a.pdTorque(j)
	}
	return out
}

// SetPdGains sets per-DOF proportional and derivative gains. Base entries are ignored.
func (a *Articulated) SetPdGains(p, d []float64) error {
	if err := checkDim("p gain", len(p), len(a.pGain)); err != nil {
		return err
	}
	if err := checkDim("d gain", len(d), len(a.dGain)); err != nil {
		return err
	}
	a.mu.Lock()
	copy(a.pGain, p)
	copy(a.dGain, d)
	a.mu.Unlock()
	return nil
}

// SetPdTarget sets the position target (coordinate-sized) and velocity target (DOF-sized).
func (a *Articulated) SetPdTarget(q, v []float64) error {
	if err := checkDim("position target", len(q), len(a.pTarget)); err != nil {
		return err
	}
	if err := checkDim("velocity target", len(v), len(a.vTarget)); err != nil {
		return err
	}
	a.mu.Lock()
	copy(a.pTarget, q)
	copy(a.vTarget, v)
	a.mu.Unlock()
	return nil
}

// BasePosition returns the base position.
func (a *Articulated) BasePosition() [3]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return [3]float64{a.gc[0], a.gc[1], a.gc[2]}
}

// BaseOrientation returns the base quaternion (w, x, y, z).
func (a *Articulated) BaseOrientation() [4]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return [4]float64{a.gc[3], a.gc[4], a.gc[5], a.gc[6]}
}

// MassMatrixDiag returns the diagonal of the mass matrix: total mass on the linear base
// entries, a box inertia on the angular ones and the joint inertia on the rest.
func (a *Articulated) MassMatrixDiag() []float64 {
	m := a.desc.Mass
	hx, hy, hz := 2*a.desc.HalfExtents[0], 2*a.desc.HalfExtents[1], 2*a.desc.HalfExtents[2]
	out := make([]float64, a.DOF())
	out[0], out[1], out[2] = m, m, m
	out[3] = m * (hy*hy + hz*hz) / 12
	out[4] = m * (hx*hx + hz*hz) / 12
	out[5] = m * (hx*hx + hy*hy) / 12
	for j := 6; j < len(out); j++ {
		out[j] = jointInertia
	}
	return out
}

// SensorSet returns the named sensor mount.
func (a *Articulated) SensorSet(name string) (*sensor.Set, error) {
	s, ok := a.sensors[name]
	if !ok {
		return nil, fmt.Errorf("robot: %s has no sensor set %q", a.desc.Model, name)
	}
	return s, nil
}

// SensorSets returns every mount on the robot.
func (a *Articulated) SensorSets() sensor.Sets { return a.sensors }

// pdTorque returns the PD torque for velocity index j (j >= 6). The coordinate index is j+1
// because the base orientation takes four coordinates but three velocities.
func (a *Articulated) pdTorque(j int) float64 {
	q := a.gc[j+1]
	return a.pGain[j]*(a.pTarget[j+1]-q) + a.dGain[j]*(a.vTarget[j]-a.gv[j])
}

// Step advances the robot by dt. gravity is the world gravity along Z (negative is down)
// and ground returns the terrain height under a point. It returns false when the state
// became non-finite.
func (a *Articulated) Step(dt, gravity float64, ground func(x, y float64) float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for j := 6; j < len(a.gv); j++ {
		tau := a.pdTorque(j) + a.gf[j]
		a.gv[j] += tau / jointInertia * dt
		a.gc[j+1] += a.gv[j] * dt
	}

	m := a.desc.Mass
	for k := 0; k < 3; k++ {
		a.gv[k] += a.gf[k] / m * dt
	}
	a.gv[2] += gravity * dt
	a.gc[0] += a.gv[0] * dt
	a.gc[1] += a.gv[1] * dt
	a.gc[2] += a.gv[2] * dt

	floor := a.desc.StandHeight
	if ground != nil {
		floor += ground(a.gc[0], a.gc[1])
	}
	if a.gc[2] <= floor {
		a.gc[2] = floor
		if a.gv[2] < 0 {
			a.gv[2] = 0
		}
		keep := math.Pow(horizontalDamping, dt)
		a.gv[0] *= keep
		a.gv[1] *= keep
	}

	for _, v := range a.gc {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func normalizeQuat(q []float64) {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		q[0], q[1], q[2], q[3] = 1, 0, 0, 0
		return
	}
	for i := range q {
		q[i] /= n
	}
}
