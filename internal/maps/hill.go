package maps

import (
	"context"

	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
)

func init() {
	register(Program{
		Name:    "hill1",
		Summary: "the hill1 height image with steel, rubber and wood bodies",
		Run:     runHill,
	})
}

const hillSteps = 2000000

func buildHill(e *Env) (*physics.Object, error) {
	w := e.World
	hm, err := e.UnrealMap("hill1")
	if err != nil {
		return nil, err
	}
	w.AddHeightMap(hm, "grass").SetAppearance("hidden")

	w.SetMaterialPairProp("grass", "steel", 0.8, 0.1, 0.001)
	w.SetMaterialPairProp("grass", "rubber", 1.2, 0.3, 0.001)
	w.SetMaterialPairProp("steel", "steel", 0.6, 0.2, 0.001)
	w.SetDefaultMaterial(0.8, 0, 0.001)

	crate := w.AddBox(2, 2, 1, 100, "steel")
	crate.SetPosition(5, 5, 20)
	crate.SetAppearance("gray")
	ball := w.AddSphere(1, 50, "rubber")
	ball.SetPosition(-5, -5, 25)
	ball.SetAppearance("red")
	plank := w.AddBox(4, 4, 0.2, 200, "wood")
	plank.SetPosition(0, 10, 15)
	plank.SetAppearance("brown")

	w.SetMaterialPairProp("wood", "steel", 0.4, 0.3, 0.001)
	w.SetMaterialPairProp("grass", "wood", 0.6, 0.1, 0.001)

	bot, _, err := e.AddRobot("aliengo", "", [3]float64{0, 0, 10.24}, robot.Identity)
	return bot, err
}

func runHill(ctx context.Context, e *Env) error {
	var bot *physics.Object
	err := e.Mutate(func() error {
		var err error
		if bot, err = buildHill(e); err != nil {
			return err
		}
		e.Server.FocusOnObject(bot)
		return e.Server.SetMap("hill1")
	})
	if err != nil {
		return err
	}
	if err := e.run(ctx, e.steps(hillSteps), nil); err != nil {
		return err
	}
	e.reportMass(bot)
	return nil
}
