package maps

import (
	"context"

	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
)

func init() {
	register(Program{
		Name:    "custom",
		Summary: "random boxes and cylinders around a 30 degree ramp",
		Run:     runCustom,
	})
}

const customSteps = 2000000

// ramp30 rotates 30 degrees about X.
var ramp30 = [9]float64{
	1, 0, 0,
	0, 0.866, -0.5,
	0, 0.5, 0.866,
}

func (e *Env) uniform(lo, hi float64) float64 { return lo + (hi-lo)*e.Rand.Float64() }

func buildCustom(e *Env) (*physics.Object, error) {
	w := e.World
	w.AddGround(0, "").SetAppearance("hidden")
	for i := 0; i < 15; i++ {
		size := e.uniform(0.5, 2)
		b := w.AddBox(size, size, size, 1, "")
		b.SetPosition(e.uniform(-15, 15), e.uniform(-15, 15), size/2)
		b.SetAppearance("red")
	}
	for i := 0; i < 8; i++ {
		r := e.uniform(0.5, 2) * 0.5
		h := e.uniform(0.5, 2) * 2
		c := w.AddCylinder(r, h, 1, "")
		c.SetPosition(e.uniform(-15, 15), e.uniform(-15, 15), h/2)
		c.SetAppearance("blue")
	}
	ramp := w.AddBox(4, 2, 0.2, 1, "")
	ramp.SetPosition(8, 0, 1)
	ramp.SetRotationMatrix(ramp30)
	ramp.SetAppearance("green")

	bot, _, err := e.AddRobot("aliengo", "robot", [3]float64{0, 0, 1.24}, robot.Identity)
	return bot, err
}

func runCustom(ctx context.Context, e *Env) error {
	var bot *physics.Object
	err := e.Mutate(func() error {
		var err error
		if bot, err = buildCustom(e); err != nil {
			return err
		}
		e.Server.FocusOnObject(bot)
		return e.Server.SetMap("simple")
	})
	if err != nil {
		return err
	}
	if err := e.run(ctx, e.steps(customSteps), nil); err != nil {
		return err
	}
	e.reportMass(bot)
	return nil
}
