package maps

import (
	"context"
	"log/slog"

	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
	"sim-maps/internal/terrain"
)

func init() {
	register(Program{
		Name:    "multi-zone",
		Summary: "four terrain zones in one world joined by bridges",
		Run:     runMultiZone,
	})
}

const (
	multiZoneSteps  = 2000000
	multiZoneReport = 5000
)

// Zone names the quadrant (x, y) lies in.
func Zone(x, y float64) string {
	switch {
	case x < 0 && y < 0:
		return "Mountain"
	case x >= 0 && y < 0:
		return "Urban"
	case x < 0:
		return "Desert"
	default:
		return "Ice"
	}
}

func buildZones(w *physics.World) error {
	mountain, err := wavesMap(100, 100, 100, -50, -50,
		terrain.Wave{Amp: 5, FreqX: 0.1, FreqY: 0.1, CosY: true},
		terrain.Wave{Amp: 2, FreqX: 0.3, FreqY: 0.2},
	)
	if err != nil {
		return err
	}
	w.AddHeightMap(mountain, "grass")
	for i := 0; i < 8; i++ {
		fi := float64(i)
		rock := w.AddSphere(1+0.2*fi, 50, "rock")
		rock.SetPosition(-80+10*fi, -80+8*fi, 10+fi)
		rock.SetAppearance("gray")
	}

	// The urban quadrant has no height map; its slab holds the buildings up.
	slab := w.AddBox(100, 100, 1, 1000, "concrete")
	slab.SetPosition(50, -50, -0.5)
	slab.SetBodyType(physics.Static)
	slab.SetAppearance("gray")
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			h := 10 + float64(x+y)*3
			b := w.AddBox(15, 15, h, 1000, "concrete")
			b.SetPosition(10+25*float64(x), -90+25*float64(y), h/2)
			b.SetAppearance("building")
		}
	}

	desert, err := wavesMap(100, 100, 100, -50, 50,
		terrain.Wave{Amp: 2, FreqX: 0.15, FreqY: 0.12, CosY: true},
		terrain.Wave{Amp: 1, FreqX: 0.4, FreqY: 0.35, CosX: true},
	)
	if err != nil {
		return err
	}
	w.AddHeightMap(desert, "sand")
	for i := 0; i < 6; i++ {
		fi := float64(i)
		c := w.AddCylinder(0.4, 5, 25, "plant")
		c.SetPosition(-80+15*fi, 20+10*fi, 3)
		c.SetAppearance("green")
	}

	ice, err := wavesMap(100, 100, 100, 50, 50,
		terrain.Wave{Amp: 1, FreqX: 0.2, FreqY: 0.18, CosY: true},
	)
	if err != nil {
		return err
	}
	w.AddHeightMap(ice, "ice").SetAppearance("lightblue")
	for i := 0; i < 5; i++ {
		fi := float64(i)
		c := w.AddCylinder(0.6, 8, 40, "ice")
		c.SetPosition(20+15*fi, 20+12*fi, 4)
		c.SetAppearance("blue")
	}

	bridges := []struct{ sx, sy, x, y, z float64 }{
		{20, 5, -10, -50, 8},
		{5, 20, 50, -10, 5},
		{20, 5, -10, 50, 6},
	}
	for _, b := range bridges {
		o := w.AddBox(b.sx, b.sy, 1, 500, "wood")
		o.SetPosition(b.x, b.y, b.z)
		o.SetAppearance("brown")
	}

	for _, p := range []struct {
		mat         string
		friction    float64
		restitution float64
	}{
		{"grass", 0.8, 0.1},
		{"concrete", 0.7, 0.2},
		{"sand", 0.3, 0.05},
		{"ice", 0.05, 0.9},
		{"wood", 0.5, 0.3},
	} {
		w.SetMaterialPairProp(p.mat, "steel", p.friction, p.restitution, 0.001)
	}
	return nil
}

func runMultiZone(ctx context.Context, e *Env) error {
	var bot *physics.Object
	err := e.Mutate(func() error {
		if err := buildZones(e.World); err != nil {
			return err
		}
		var err error
		bot, _, err = e.AddRobot("aliengo", "", [3]float64{-50, -50, 15.24}, robot.Identity)
		if err != nil {
			return err
		}
		e.Server.FocusOnObject(bot)
		return e.Server.SetMap("simple")
	})
	if err != nil {
		return err
	}
	err = e.run(ctx, e.steps(multiZoneSteps), func(i int) error {
		if i%multiZoneReport != 0 {
			return nil
		}
		p := bot.Robot.BasePosition()
		e.Log.Info("multi-zone: robot",
			slog.String("zone", Zone(p[0], p[1])),
			slog.Float64("x", p[0]), slog.Float64("y", p[1]), slog.Float64("z", p[2]))
		return nil
	})
	if err != nil {
		return err
	}
	e.reportMass(bot)
	return nil
}
