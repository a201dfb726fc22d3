package maps

import (
	"context"
	"log/slog"

	"sim-maps/internal/material"
	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
	"sim-maps/internal/scene"
	"sim-maps/internal/terrain"
)

func init() {
	register(Program{
		Name:    "multi-scene",
		Summary: "mountain, urban, desert and ice scenes, switched every 10000 steps",
		Run:     runMultiScene,
	})
}

const (
	multiSceneSteps  = 80000
	multiSceneSwitch = 10000
)

func mountainScene(e *Env) scene.Builder {
	return scene.Builder{Name: "mountain", Build: func(s *scene.Scene) error {
		hm, err := e.UnrealMap("hill1")
		if err != nil {
			return err
		}
		keep(s, e.World.AddHeightMap(hm, "grass")).SetAppearance("mountain")
		for i := 0; i < 10; i++ {
			fi := float64(i)
			rock := keep(s, e.World.AddSphere(0.5+0.1*fi, 100, "rock"))
			rock.SetPosition(-20+4*fi, -10+2*fi, 15+fi)
			rock.SetAppearance("gray")
		}
		e.World.SetMaterialPairProp("grass", "rock", 0.8, 0.1, 0.001)
		return nil
	}}
}

func urbanScene(e *Env) scene.Builder {
	return scene.Builder{Name: "urban", Build: func(s *scene.Scene) error {
		keep(s, e.World.AddGround(0, "concrete"))
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				if (x+y)%2 != 0 {
					continue
				}
				h := 5 + float64(x+y)*2
				b := keep(s, e.World.AddBox(8, 8, h, 1000, "concrete"))
				b.SetPosition(float64(x)*20-40, float64(y)*20-40, h/2)
				b.SetAppearance("building")
			}
		}
		for i := 0; i < 20; i++ {
			car := keep(s, e.World.AddBox(4, 2, 1.5, 50, "metal"))
			car.SetPosition(-50+5*float64(i), 0, 1)
			car.SetAppearance("red")
		}
		e.World.SetMaterialPairProp("concrete", "metal", 0.7, 0.2, material.DefaultPair.Threshold)
		return nil
	}}
}

func desertScene(e *Env) scene.Builder {
	return scene.Builder{Name: "desert", Build: func(s *scene.Scene) error {
		hm, err := wavesMap(100, 100, 200, 0, 0,
			terrain.Wave{Amp: 3, FreqX: 0.2, FreqY: 0.15, CosY: true},
			terrain.Wave{Amp: 1.5, FreqX: 0.4, FreqY: 0.3},
		)
		if err != nil {
			return err
		}
		keep(s, e.World.AddHeightMap(hm, "sand")).SetAppearance("yellow")
		for i := 0; i < 15; i++ {
			c := keep(s, e.World.AddCylinder(0.3, 3, 10, "plant"))
			c.SetPosition(-80+10*float64(i), -60+float64(i%3)*40, 5)
			c.SetAppearance("green")
		}
		e.World.SetMaterialPairProp("sand", "steel", 0.3, 0.05, material.DefaultPair.Threshold)
		e.World.SetMaterialPairProp("sand", "plant", 0.5, 0.1, material.DefaultPair.Threshold)
		return nil
	}}
}

func iceScene(e *Env) scene.Builder {
	return scene.Builder{Name: "ice", Build: func(s *scene.Scene) error {
		hm, err := wavesMap(100, 100, 150, 0, 0,
			terrain.Wave{Amp: 0.5, FreqX: 0.3, FreqY: 0.25, CosY: true},
		)
		if err != nil {
			return err
		}
		keep(s, e.World.AddHeightMap(hm, "ice")).SetAppearance("blue")
		for i := 0; i < 12; i++ {
			c := keep(s, e.World.AddCylinder(0.5, 8, 50, "ice"))
			c.SetPosition(-60+10*float64(i), -30+float64(i%2)*60, 4)
			c.SetAppearance("lightblue")
		}
		e.World.SetMaterialPairProp("ice", "steel", 0.05, 0.9, material.DefaultPair.Threshold)
		return nil
	}}
}

func runMultiScene(ctx context.Context, e *Env) error {
	scenes := e.Scenes(mountainScene(e), urbanScene(e), desertScene(e), iceScene(e))
	var (
		bot     *physics.Object
		nominal []float64
	)
	err := e.Mutate(func() error {
		if err := scenes.Switch(0); err != nil {
			return err
		}
		var err error
		bot, nominal, err = e.AddRobot("aliengo", "", [3]float64{0, 0, 10.24}, robot.Identity)
		if err != nil {
			return err
		}
		e.Server.FocusOnObject(bot)
		return nil
	})
	if err != nil {
		return err
	}

	err = e.run(ctx, e.steps(multiSceneSteps), func(i int) error {
		if i == 0 || i%multiSceneSwitch != 0 {
			return nil
		}
		return e.Mutate(func() error {
			if err := scenes.Next(); err != nil {
				return err
			}
			e.Log.Info("multi-scene: switched", slog.Int("step", i), slog.String("scene", scenes.Scene().Name))
			return resetRobot(bot, nominal)
		})
	})
	if err != nil {
		return err
	}
	e.reportMass(bot)
	return nil
}
