package maps

import (
	"context"
	"image/color"
	"math"

	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
	"sim-maps/internal/terrain"
)

func init() {
	register(Program{
		Name:    "advanced",
		Summary: "coloured rolling terrain, maze, bridge, stairs, moving platforms and debris",
		Run:     runAdvanced,
	})
}

const (
	advancedSteps   = 2000000
	advancedSamples = 100
	advancedSize    = 20.0
	// terrain heights ripple every advancedRipple steps
	advancedRipple = 100
)

var advancedWaves = []terrain.Wave{
	{Amp: 2, FreqX: 0.1, FreqY: 0.1, CosY: true},
	{Amp: 1, FreqX: 0.3, FreqY: 0.2},
	{Amp: 0.5, FreqX: 0.5, FreqY: 0.4, CosX: true, CosY: true},
}

var advancedBands = []terrain.Band{
	{Below: -1, Color: color.RGBA{0, 100, 255, 255}},
	{Below: 1, Color: color.RGBA{0, 255, 100, 255}},
}

var advancedTop = color.RGBA{139, 69, 19, 255}

// platforms are the three boxes run along Lissajous paths.
type platforms []*physics.Object

func (p platforms) move(t float64) {
	for j, o := range p {
		off := float64(j) * 2 * math.Pi / 3
		o.SetPosition(
			10+5*float64(j)+3*math.Sin(t*0.5+off),
			3*math.Cos(t*0.3+off),
			2+math.Sin(t*0.8+off),
		)
	}
}

// ripple perturbs heights in place for time t.
func ripple(heights []float64, ys int, t float64) {
	for i := range heights {
		x, y := float64(i/ys), float64(i%ys)
		heights[i] += 0.1 * math.Sin(t*2+x*0.2+y*0.2)
	}
}

type advancedWorld struct {
	heights   []float64
	hm        *terrain.HeightMap
	platforms platforms
	robot     *physics.Object
}

func buildAdvanced(e *Env) (*advancedWorld, error) {
	w := e.World
	heights := terrain.Waves(advancedSamples, advancedSamples, advancedWaves...)
	hm, err := terrain.New(advancedSamples, advancedSamples, advancedSize, advancedSize, 0, 0, heights)
	if err != nil {
		return nil, err
	}
	if err := hm.SetColors(terrain.ColorByHeight(heights, advancedBands, advancedTop)); err != nil {
		return nil, err
	}
	w.AddHeightMap(hm, "").SetName("custom_terrain")

	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			if (i+j)%3 != 0 {
				continue
			}
			wall := w.AddBox(1, 1, 2, 1, "")
			wall.SetPosition(-15+2*float64(i), -15+2*float64(j), 1)
			wall.SetAppearance("gray")
		}
	}

	for _, x := range []float64{-5, 5} {
		pillar := w.AddCylinder(0.5, 8, 1, "")
		pillar.SetPosition(x, 0, 4)
		pillar.SetAppearance("brown")
	}
	deck := w.AddBox(12, 2, 0.2, 1, "")
	deck.SetPosition(0, 0, 8.2)
	deck.SetAppearance("wood")

	for i := 0; i < 8; i++ {
		step := w.AddBox(2, 2, 0.2, 1, "")
		step.SetPosition(-8+0.5*float64(i), 3, float64(i)+0.5)
		step.SetAppearance("concrete")
	}

	aw := &advancedWorld{heights: heights, hm: hm}
	for i := 0; i < 3; i++ {
		p := w.AddBox(3, 3, 0.3, 1, "")
		p.SetBodyType(physics.Kinematic)
		p.SetAppearance("metal")
		aw.platforms = append(aw.platforms, p)
	}
	aw.platforms.move(0)

	for i := 0; i < 50; i++ {
		size := 0.1 + 0.7*e.Rand.Float64()
		d := w.AddSphere(size, 0.5, "")
		d.SetPosition(-25+50*e.Rand.Float64(), -25+50*e.Rand.Float64(), 10+0.5*float64(i))
		d.SetLinearVelocity([3]float64{
			float64(e.Rand.IntN(20)-10) * 0.1,
			float64(e.Rand.IntN(20)-10) * 0.1,
			-5,
		})
	}

	bot, _, err := e.AddRobot("aliengo", "robot", [3]float64{0, 0, 1.24}, robot.Identity)
	if err != nil {
		return nil, err
	}
	aw.robot = bot
	return aw, nil
}

func runAdvanced(ctx context.Context, e *Env) error {
	var aw *advancedWorld
	err := e.Mutate(func() error {
		var err error
		if aw, err = buildAdvanced(e); err != nil {
			return err
		}
		e.Server.FocusOnObject(aw.robot)
		return e.Server.SetMap("simple")
	})
	if err != nil {
		return err
	}
	err = e.run(ctx, e.steps(advancedSteps), func(i int) error {
		t := e.World.WorldTime()
		return e.Mutate(func() error {
			aw.platforms.move(t)
			if i%advancedRipple != 0 {
				return nil
			}
			ripple(aw.heights, advancedSamples, t)
			return aw.hm.Update(0, 0, advancedSize, advancedSize, aw.heights)
		})
	})
	if err != nil {
		return err
	}
	e.reportMass(aw.robot)
	return nil
}
