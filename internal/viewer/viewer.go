// Package viewer is the optional raylib window. It draws the served world each frame from
// a snapshot taken under the server's locks and orbits the camera around the focused object.
package viewer

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sim-maps/internal/physics"
	"sim-maps/internal/server"
	"sim-maps/internal/viewer/frame"
)

// Options sizes the window.
type Options struct {
	Width  int32
	Height int32
	Title  string
}

const (
	targetFPS      = 60
	rotateSpeed    = 0.005
	zoomStep       = 0.9
	groundExtent   = 500
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// Run opens the window and draws until it is closed or ctx is done. raylib requires the
// calling goroutine to be locked to the main OS thread.
func Run(ctx context.Context, srv *server.Server, opts Options) error {
	if opts.Title == "" {
		opts.Title = "sim-maps"
	}
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(opts.Width, opts.Height, opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	prims := newPrimitives()
	defer prims.unload()
	terr := newTerrains()
	defer terr.unload()

	var overlay hud
	orbit := frame.DefaultOrbit()
	cam := rl.Camera3D{
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		handleInput(&orbit)

		var f frame.Frame
		focus := srv.Focus()
		srv.View(func(w *physics.World) {
			f = frame.Snapshot(w, focus)
		})
		status := srv.Status()

		eye := orbit.Eye(f.Focus)
		cam.Position = rl.NewVector3(eye[0], eye[1], eye[2])
		cam.Target = rl.NewVector3(f.Focus[0], f.Focus[1], f.Focus[2])
		prims.setView(eye)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(30, 34, 40, 255))
		rl.BeginMode3D(cam)
		for _, z := range f.Grounds {
			rl.DrawPlane(rl.NewVector3(f.Focus[0], z, f.Focus[2]), rl.NewVector2(groundExtent, groundExtent), rl.NewColor(90, 95, 100, 255))
		}
		drawGrid()
		terr.draw(f)
		for _, it := range f.Items {
			prims.draw(it)
		}
		rl.EndMode3D()
		overlay.draw(status, focus)
		rl.EndDrawing()
	}
	return nil
}

// handleInput orbits with the right mouse button and zooms with the wheel.
func handleInput(o *frame.Orbit) {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		o.Rotate(d.X*rotateSpeed, d.Y*rotateSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		o.Zoom(zoomStep)
	} else if wheel < 0 {
		o.Zoom(1 / zoomStep)
	}
}

// drawGrid draws a grid on the ground plane with major/minor lines and axis lines.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(z)
		rl.DrawLine3D(start, end, c)
	}

	// world X red, world Y green (viewer -Z), world Z blue (viewer Y)
	rl.DrawLine3D(rl.NewVector3(0, 0, 0), rl.NewVector3(gridExtent, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, 0, 0), rl.NewVector3(0, 0, -gridExtent), rl.NewColor(80, 220, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, 0, 0), rl.NewVector3(0, gridExtent, 0), rl.NewColor(80, 80, 220, axisLineAlpha))
}
