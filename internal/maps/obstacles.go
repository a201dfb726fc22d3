package maps

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"sim-maps/internal/input"
	"sim-maps/internal/physics"
	"sim-maps/internal/robot"
	"sim-maps/internal/scatter"
	"sim-maps/internal/scene"
	"sim-maps/internal/terrain"
)

func init() {
	register(Program{
		Name:     "obstacles",
		Summary:  "keyboard-switched maps with trees, rocks and stumps scattered around the robot",
		TimeStep: 0.005,
		Run:      runObstacles,
	})
}

// Scatter parameters around the robot.
const (
	scatterRadius   = 15.0
	scatterCount    = 100
	scatterInterval = 3.0
	scatterKeepOut  = 2.0
)

// obstacleMesh is one kind of scattered prop.
type obstacleMesh struct {
	file       string
	scale      float64
	lift       float64
	appearance string
}

var obstacleMeshes = []obstacleMesh{
	{file: "Lowpoly_tree_sample.obj", scale: 0.1, appearance: "green"},
	{file: "Rock.obj", scale: 0.5, lift: 1, appearance: "marble3"},
	{file: "stump_4.obj", scale: 0.04, appearance: "wood2"},
}

// obstacleStart is where the robot is placed in every scene; z comes from the terrain.
var (
	obstacleStart = [2]float64{10, 10}
	obstacleQuat  = [4]float64{0.7071, 0, 0, 0.7071}
)

type obstacles struct {
	e   *Env
	bot *physics.Object
}

// groundAt is the terrain height under (x, y), or 0 off every terrain.
func (o *obstacles) groundAt(x, y float64) float64 {
	z, _ := o.e.World.TerrainHeight(x, y)
	if math.IsInf(z, -1) {
		return 0
	}
	return z
}

func (o *obstacles) heightImage(name string) scene.Builder {
	return scene.Builder{Name: name, Build: func(s *scene.Scene) error {
		hm, err := o.e.UnrealMap(name)
		if err != nil {
			return err
		}
		keep(s, o.e.World.AddHeightMap(hm, "grass")).SetAppearance("hidden")
		o.e.World.SetMaterialPairProp("grass", "steel", 0.8, 0.1, 0.001)
		return o.populate(s, name)
	}}
}

func (o *obstacles) wheat() scene.Builder {
	return scene.Builder{Name: "wheat", Build: func(s *scene.Scene) error {
		hm, err := terrain.New(2, 2, hillExtent, hillExtent, 0, 0, terrain.Flat(2, 2, 0))
		if err != nil {
			return err
		}
		keep(s, o.e.World.AddHeightMap(hm, "sand")).SetAppearance("hidden")
		o.e.World.SetMaterialPairProp("sand", "steel", 0.8, 0.1, 0.001)
		return o.populate(s, "wheat")
	}}
}

// populate resets the robot onto the new terrain, then adds the axis markers and the
// scattered props, all owned by s.
func (o *obstacles) populate(s *scene.Scene, mapName string) error {
	e := o.e
	if err := e.Server.SetMap(mapName); err != nil {
		return err
	}
	x, y := obstacleStart[0], obstacleStart[1]
	pos := [3]float64{x, y, o.groundAt(x, y) + 1}
	if o.bot == nil {
		bot, _, err := e.AddRobot("aliengo", "", pos, obstacleQuat)
		if err != nil {
			return err
		}
		o.bot = bot
		e.Server.FocusOnObject(bot)
	} else if _, err := robot.Stand(o.bot.Robot, pos, obstacleQuat); err != nil {
		return err
	}

	axes := []struct {
		size, pos  [3]float64
		appearance string
	}{
		{[3]float64{252, 0.1, 0.1}, [3]float64{126, -0.1, 20}, "red"},
		{[3]float64{0.1, 252, 0.1}, [3]float64{-0.1, 126, 20}, "green"},
		{[3]float64{0.2, 0.2, 126}, [3]float64{0, 0, 83}, "blue"},
	}
	for _, a := range axes {
		b := keep(s, e.World.AddBox(a.size[0], a.size[1], a.size[2], 1, ""))
		b.SetPosition(a.pos[0], a.pos[1], a.pos[2])
		b.SetBodyType(physics.Static)
		b.SetAppearance(a.appearance)
	}
	marker := keep(s, e.World.AddSphere(0.1, 1, ""))
	marker.SetPosition(pos[0], pos[1], pos[2])
	marker.SetBodyType(physics.Static)

	center := scatter.Point2D{X: x, Y: y}
	points := scatter.Generate(e.Rand, center, scatterRadius, scatterCount, scatterInterval)
	placed := 0
	for _, p := range points {
		if scatter.Distance(p, center) < scatterKeepOut {
			continue
		}
		m := obstacleMeshes[placed%len(obstacleMeshes)]
		prop := keep(s, e.World.AddMesh(e.Rsc.Mesh(m.file), 1, m.scale, ""))
		prop.SetPosition(p.X, p.Y, o.groundAt(p.X, p.Y)+m.lift)
		prop.SetAxisAngle([3]float64{1, 0, 0}, math.Pi/2)
		prop.SetBodyType(physics.Static)
		prop.SetAppearance(m.appearance)
		placed++
	}
	e.Log.Info("obstacles: scattered", slog.String("map", mapName), slog.Int("props", placed), slog.Int("sampled", len(points)))
	return nil
}

// key switches scenes: Enter goes to the next one, a number picks that scene.
func (o *obstacles) key(line string) error {
	if line == input.Enter {
		return o.e.NextScene()
	}
	id, err := strconv.Atoi(line)
	if err != nil {
		o.e.Log.Warn("obstacles: press Enter for the next map or type its number", slog.String("input", line))
		return nil
	}
	return o.e.SwitchScene(id)
}

func runObstacles(ctx context.Context, e *Env) error {
	o := &obstacles{e: e}
	scenes := e.Scenes(o.heightImage("hill1"), o.heightImage("lake1"), o.heightImage("mountain1"), o.wheat())
	if err := e.Mutate(func() error { return scenes.Switch(scenes.Count() - 1) }); err != nil {
		return err
	}
	e.onKey = o.key
	defer func() { e.onKey = nil }()
	return e.run(ctx, e.steps(0), nil)
}
