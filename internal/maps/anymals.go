package maps

import (
	"context"
	"log/slog"

	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
	"sim-maps/internal/sensor"
	"sim-maps/internal/server"
	"sim-maps/internal/terrain"
)

func init() {
	register(Program{
		Name:    "anymals",
		Summary: "ANYmal B and a camera-equipped ANYmal C with joint graphs",
		Run:     runAnymals,
	})
	register(Program{
		Name:    "anymals-terrain",
		Summary: "camera-equipped ANYmal C on sine terrain with joint graphs",
		Run:     runAnymalsTerrain,
	})
}

const (
	anymalsSteps  = 200000000
	graphEvery    = 10
	anymalsReport = 1000
)

// imu estimates linear acceleration by differencing successive base velocities.
type imu struct {
	primed bool
	t      float64
	v      [3]float64
}

// update returns the acceleration since the previous sample. The first sample, and any
// sample without time progress, reads zero.
func (m *imu) update(t float64, v [3]float64) [3]float64 {
	var a [3]float64
	if m.primed && t > m.t {
		dt := t - m.t
		for k := range a {
			a[k] = (v[k] - m.v[k]) / dt
		}
	}
	m.primed, m.t, m.v = true, t, v
	return a
}

// jointGraphs are the position, velocity and torque plots of one robot.
type jointGraphs struct {
	position, velocity, torque *server.Graph
}

func newJointGraphs(srv *server.Server, joints []string) jointGraphs {
	return jointGraphs{
		position: srv.AddTimeSeriesGraph("joint position", joints, "time", "position"),
		velocity: srv.AddTimeSeriesGraph("joint velocity", joints, "time", "velocity"),
		torque:   srv.AddTimeSeriesGraph("joint torque", joints, "time", "torque"),
	}
}

func tail(v []float64, n int) []float64 {
	if len(v) < n {
		return v
	}
	return v[len(v)-n:]
}

// feed appends the robot's joint state at time t.
func (g jointGraphs) feed(t float64, a *robot.Articulated) error {
	n := len(a.JointNames())
	if err := g.position.AddDataPoints(t, tail(a.GeneralizedCoordinate(), n)); err != nil {
		return err
	}
	if err := g.velocity.AddDataPoints(t, tail(a.GeneralizedVelocity(), n)); err != nil {
		return err
	}
	return g.torque.AddDataPoints(t, tail(a.GeneralizedForce(), n))
}

// renderOnVisualizer hands the robot's cameras to the visualization side.
func renderOnVisualizer(a *robot.Articulated) {
	for _, set := range a.SensorSets() {
		if set.Depth != nil {
			set.Depth.SetMeasurementSource(sensor.SourceVisualizer)
		}
		if set.Color != nil {
			set.Color.SetMeasurementSource(sensor.SourceVisualizer)
		}
	}
}

// cameraSizes returns the buffer length of every camera, keyed "mount/depth" and
// "mount/color".
func cameraSizes(a *robot.Articulated) []slog.Attr {
	sets := a.SensorSets()
	var out []slog.Attr
	for _, name := range sets.Names() {
		set := sets[name]
		if set.Depth != nil {
			set.Depth.Lock()
			out = append(out, slog.Int(name+"/depth", len(set.Depth.DepthArray())))
			set.Depth.Unlock()
		}
		if set.Color != nil {
			set.Color.Lock()
			out = append(out, slog.Int(name+"/color", len(set.Color.ImageBuffer())))
			set.Color.Unlock()
		}
	}
	return out
}

// anymalLoop steps the world, feeding the graphs every graphEvery steps and logging an
// IMU estimate every anymalsReport steps.
func anymalLoop(ctx context.Context, e *Env, bot *physics.Object, graphs jointGraphs) error {
	var est imu
	return e.run(ctx, e.steps(anymalsSteps), func(i int) error {
		if i%graphEvery != 0 {
			return nil
		}
		a := bot.Robot
		t := e.World.WorldTime()
		if err := graphs.feed(t, a); err != nil {
			return err
		}
		gv := a.GeneralizedVelocity()
		acc := est.update(t, [3]float64{gv[0], gv[1], gv[2]})
		if i%anymalsReport != 0 {
			return nil
		}
		q := a.BaseOrientation()
		attrs := []slog.Attr{
			slog.Float64("t", t),
			slog.Any("linear_acceleration", acc),
			slog.Any("angular_velocity", [3]float64{gv[3], gv[4], gv[5]}),
			slog.Any("orientation", q),
		}
		e.Server.View(func(*physics.World) { attrs = append(attrs, cameraSizes(a)...) })
		e.Log.LogAttrs(ctx, slog.LevelInfo, "imu", attrs...)
		return nil
	})
}

func runAnymals(ctx context.Context, e *Env) error {
	var c *physics.Object
	err := e.Mutate(func() error {
		e.World.AddGround(0, "gnd").SetAppearance("hidden")
		if _, _, err := e.AddRobot("anymal", "anymalB", [3]float64{0, 1, 0.54}, robot.Identity); err != nil {
			return err
		}
		var err error
		if c, _, err = e.AddRobot("anymal_sensored", "anymalC", [3]float64{0, 0, 0.54}, robot.Identity); err != nil {
			return err
		}
		renderOnVisualizer(c.Robot)
		e.Server.FocusOnObject(c)
		return e.Server.SetMap("wheat")
	})
	if err != nil {
		return err
	}
	return anymalLoop(ctx, e, c, newJointGraphs(e.Server, c.Robot.JointNames()))
}

func runAnymalsTerrain(ctx context.Context, e *Env) error {
	var c *physics.Object
	err := e.Mutate(func() error {
		hm, err := wavesMap(100, 100, 20, 0, 0, terrain.Wave{Amp: 0.5, FreqX: 0.2, FreqY: 0.2, CosY: true})
		if err != nil {
			return err
		}
		e.World.AddHeightMap(hm, "").SetName("custom_terrain")
		if c, _, err = e.AddRobot("anymal_sensored", "anymalC", [3]float64{0, 0, 0.54}, robot.Identity); err != nil {
			return err
		}
		renderOnVisualizer(c.Robot)
		e.Server.FocusOnObject(c)
		return nil
	})
	if err != nil {
		return err
	}
	return anymalLoop(ctx, e, c, newJointGraphs(e.Server, c.Robot.JointNames()))
}
