// Package maps holds the runnable demo programs. Each program builds its world through an
// Env and then steps it inside the server loop.
package maps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"sim-maps/internal/commands"
	"sim-maps/internal/engineconfig"
	"sim-maps/internal/input"
	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
	"sim-maps/internal/rsc"
	"sim-maps/internal/scatter"
	"sim-maps/internal/scene"
	"sim-maps/internal/server"
	"sim-maps/internal/terrain"
)

// Env is everything a map program needs.
type Env struct {
	World   *physics.World
	Server  *server.Server
	Log     *slog.Logger
	Rsc     rsc.Dir
	Config  engineconfig.Config
	Keys    *input.Mailbox[string]
	Rand    *rand.Rand
	Terrain *terrain.Loader
	Console *commands.Registry

	// Steps overrides every program's iteration count when positive.
	Steps int

	scenes *scene.Manager
	onKey  func(line string) error
}

// NewEnv wires an Env around srv. Console output goes to out. A zero cfg.Seed seeds the
// random source from the clock.
func NewEnv(srv *server.Server, cfg engineconfig.Config, dir rsc.Dir, keys *input.Mailbox[string], log *slog.Logger, out io.Writer) (*Env, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if keys == nil {
		keys = input.NewMailbox[string]()
	}
	loader, err := terrain.NewLoader(terrain.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	rng := scatter.NewSource()
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	e := &Env{
		World:   srv.World(),
		Server:  srv,
		Log:     log,
		Rsc:     dir,
		Config:  cfg,
		Keys:    keys,
		Rand:    rng,
		Terrain: loader,
	}
	e.Console = commands.NewConsole(e, commands.NewRegistry(out))
	return e, nil
}

func (e *Env) steps(def int) int {
	if e.Steps > 0 {
		return e.Steps
	}
	return def
}

// Mutate runs fn holding the visualization mutex, so readers never see a half-built scene.
func (e *Env) Mutate(fn func() error) error {
	e.Server.LockVisualizationServerMutex()
	defer e.Server.UnlockVisualizationServerMutex()
	return fn()
}

// Scenes installs the scene manager used by the console and scene keys.
func (e *Env) Scenes(builders ...scene.Builder) *scene.Manager {
	e.scenes = scene.NewManager(e.World, e.Log, builders...)
	return e.scenes
}

// robotPath returns the resource file for a catalogue model, or the bare model name when
// the resource tree does not carry it.
func (e *Env) robotPath(model string) string {
	var p string
	switch model {
	case "aliengo":
		p = e.Rsc.Aliengo()
	case "anymal":
		p = e.Rsc.AnymalB()
	case "anymal_sensored":
		p = e.Rsc.AnymalSensored()
	}
	if p != "" && rsc.Exists(p) {
		return p
	}
	return model
}

// AddRobot loads model, names it and stands it at pos. The nominal configuration is
// returned for later resets.
func (e *Env) AddRobot(model, name string, pos [3]float64, quat [4]float64) (*physics.Object, []float64, error) {
	o, err := e.World.AddArticulatedSystem(e.robotPath(model))
	if err != nil {
		return nil, nil, fmt.Errorf("maps: %w", err)
	}
	if name != "" {
		o.Robot.SetName(name)
		o.SetName(name)
	}
	nominal, err := robot.Stand(o.Robot, pos, quat)
	if err != nil {
		return nil, nil, fmt.Errorf("maps: stand %s: %w", model, err)
	}
	return o, nominal, nil
}

// hillScale and hillOffset map the 16-bit raisimUnrealMaps images to metres.
const (
	hillScale  = 38.0 / (37312 - 32482)
	hillOffset = -32650 * hillScale
	hillExtent = 504.0
)

// UnrealMap loads a raisimUnrealMaps height image centred at the origin.
func (e *Env) UnrealMap(name string) (*terrain.HeightMap, error) {
	hm, err := e.Terrain.Load(terrain.PNGSpec{
		Path:         e.Rsc.HeightMap(name),
		XSize:        hillExtent,
		YSize:        hillExtent,
		HeightScale:  hillScale,
		HeightOffset: hillOffset,
	})
	if err != nil {
		return nil, fmt.Errorf("maps: %s: %w", name, err)
	}
	return hm, nil
}

// wavesMap builds a sine terrain with xs*ys samples spanning size x size.
func wavesMap(xs, ys int, size, cx, cy float64, terms ...terrain.Wave) (*terrain.HeightMap, error) {
	return terrain.New(xs, ys, size, size, cx, cy, terrain.Waves(xs, ys, terms...))
}

// HandleKey routes a line from the keyboard or HTTP. Lines starting with "cmd " go to the
// console; everything else is returned unhandled for the program to interpret.
func (e *Env) HandleKey(line string) (bool, error) {
	return e.Console.Handle(line)
}

// SwitchScene implements commands.Target.
func (e *Env) SwitchScene(id int) error {
	if e.scenes == nil {
		return fmt.Errorf("maps: this map has no scenes")
	}
	return e.Mutate(func() error { return e.scenes.Switch(id) })
}

// NextScene implements commands.Target.
func (e *Env) NextScene() error {
	if e.scenes == nil {
		return fmt.Errorf("maps: this map has no scenes")
	}
	return e.Mutate(e.scenes.Next)
}

// FocusOn implements commands.Target.
func (e *Env) FocusOn(name string) error { return e.Server.FocusOn(name) }

// SetMap implements commands.Target.
func (e *Env) SetMap(name string) error { return e.Server.SetMap(name) }

// Status implements commands.Target.
func (e *Env) Status() string { return e.Server.Status() }

// run steps the world n times, calling each after every step with the iteration index.
// A nil each just steps. A pending input line is handled before the step: console lines
// by the console, anything else by the program's key handler when it set one.
func (e *Env) run(ctx context.Context, n int, each func(i int) error) error {
	return e.Server.Loop(ctx, n, func(i int) error {
		if line, ok := e.Keys.TryTake(); ok {
			handled, err := e.HandleKey(line)
			if !handled && e.onKey != nil {
				err = e.onKey(line)
			}
			if err != nil {
				e.Log.Warn("input", slog.String("line", line), slog.Any("err", err))
			}
		}
		e.Server.IntegrateWorldThreadSafe()
		if each == nil {
			return nil
		}
		return each(i)
	})
}

// reportMass logs the first mass matrix diagonal entry, the floating base mass.
func (e *Env) reportMass(o *physics.Object) {
	if m := o.Robot.MassMatrixDiag(); len(m) > 0 {
		e.Log.Info("robot mass", slog.String("robot", o.Robot.Name()), slog.Float64("mass", m[0]))
	}
}

// keep tracks o in s and returns it.
func keep(s *scene.Scene, o *physics.Object) *physics.Object {
	s.Track(o.Handle)
	return o
}

// resetRobot puts o back on its nominal configuration at rest.
func resetRobot(o *physics.Object, nominal []float64) error {
	if err := o.Robot.SetGeneralizedCoordinate(nominal); err != nil {
		return err
	}
	return o.Robot.SetGeneralizedVelocity(make([]float64, o.Robot.DOF()))
}
