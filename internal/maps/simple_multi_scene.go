package maps

import (
	"context"
	"log/slog"
	"strconv"

	"sim-maps/internal/robot"
	"sim-maps/internal/scene"
	"sim-maps/internal/terrain"
)

func init() {
	register(Program{
		Name:    "simple-multi-scene",
		Summary: "pick one of three scenes (1-3) from the keyboard",
		Run:     runSimpleMultiScene,
	})
}

const simpleSteps = 2000000

func simpleMountain(e *Env) scene.Builder {
	return scene.Builder{Name: "mountain", Build: func(s *scene.Scene) error {
		hm, err := e.UnrealMap("hill1")
		if err != nil {
			return err
		}
		keep(s, e.World.AddHeightMap(hm, "grass"))
		rock := keep(s, e.World.AddSphere(2, 100, "rock"))
		rock.SetPosition(10, 10, 15)
		rock.SetAppearance("gray")
		boulder := keep(s, e.World.AddBox(3, 3, 2, 200, "rock"))
		boulder.SetPosition(-15, 5, 10)
		boulder.SetAppearance("darkgray")
		return e.Server.SetMap("hill1")
	}}
}

func simpleUrban(e *Env) scene.Builder {
	return scene.Builder{Name: "urban", Build: func(s *scene.Scene) error {
		keep(s, e.World.AddGround(0, "concrete"))
		for i := 0; i < 5; i++ {
			b := keep(s, e.World.AddBox(10, 10, 20, 1000, "concrete"))
			b.SetPosition(25*float64(i)-50, 0, 10)
		}
		for i := 0; i < 8; i++ {
			car := keep(s, e.World.AddBox(4, 2, 1.5, 50, "metal"))
			car.SetPosition(8*float64(i)-30, 15, 1)
			car.SetAppearance("red")
		}
		return e.Server.SetMap("simple")
	}}
}

func simpleDesert(e *Env) scene.Builder {
	return scene.Builder{Name: "desert", Build: func(s *scene.Scene) error {
		hm, err := wavesMap(100, 100, 100, 0, 0, terrain.Wave{Amp: 2, FreqX: 0.1, FreqY: 0.1, CosY: true})
		if err != nil {
			return err
		}
		keep(s, e.World.AddHeightMap(hm, "sand"))
		for i := 0; i < 6; i++ {
			c := keep(s, e.World.AddCylinder(0.5, 4, 20, "plant"))
			c.SetPosition(-30+10*float64(i), -20+float64(i%2)*40, 2)
		}
		return e.Server.SetMap("simple")
	}}
}

// simplePairs sets the contact properties of the chosen scene's materials.
func simplePairs(e *Env, choice int) {
	switch choice {
	case 1:
		e.World.SetMaterialPairProp("grass", "steel", 0.8, 0.1, 0.001)
	case 2:
		e.World.SetMaterialPairProp("concrete", "metal", 0.7, 0.2, 0.001)
	case 3:
		e.World.SetMaterialPairProp("sand", "steel", 0.2, 0.05, 0.001)
		e.World.SetMaterialPairProp("sand", "plant", 0.5, 0.1, 0.001)
	}
}

// awaitChoice blocks for the next input line and parses it as a scene number 1..n.
// valid is false for anything else, which callers treat as scene 1 with default
// contacts. ok is false when ctx ends first.
func (e *Env) awaitChoice(ctx context.Context, n int) (choice int, valid, ok bool) {
	e.Log.Info("choose a scene", slog.Int("from", 1), slog.Int("to", n))
	var line string
	select {
	case line = <-e.Keys.C():
	case <-ctx.Done():
		return 0, false, false
	}
	c, err := strconv.Atoi(line)
	if err != nil || c < 1 || c > n {
		e.Log.Warn("invalid scene choice, using 1", slog.String("input", line))
		return 1, false, true
	}
	return c, true, true
}

func runSimpleMultiScene(ctx context.Context, e *Env) error {
	scenes := e.Scenes(simpleMountain(e), simpleUrban(e), simpleDesert(e))
	choice, valid, ok := e.awaitChoice(ctx, scenes.Count())
	if !ok {
		return nil
	}
	err := e.Mutate(func() error {
		if err := scenes.Switch(choice - 1); err != nil {
			return err
		}
		if valid {
			simplePairs(e, choice)
		}
		bot, _, err := e.AddRobot("aliengo", "", [3]float64{0, 0, 15.24}, robot.Identity)
		if err != nil {
			return err
		}
		e.Server.FocusOnObject(bot)
		return nil
	})
	if err != nil {
		return err
	}
	return e.run(ctx, e.steps(simpleSteps), nil)
}
