package frame

import (
	"image/color"
	"math"
	"testing"

	"sim-maps/internal/physics"
	"sim-maps/internal/terrain"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestToView(t *testing.T) {
	got := ToView([3]float64{1, 2, 3})
	if got != ([3]float32{1, 3, -2}) {
		t.Fatalf("ToView = %v", got)
	}
}

func TestSnapshot(t *testing.T) {
	w := physics.NewWorld()
	w.AddGround(0, "").SetAppearance("hidden")
	box := w.AddBox(1, 2, 3, 1, "")
	box.SetPosition(4, 5, 6)
	box.SetAppearance("red")
	ball := w.AddSphere(0.5, 1, "")
	ball.SetName("ball")
	cyl := w.AddCylinder(0.25, 2, 1, "")
	cyl.SetAxisAngle([3]float64{0, 0, 1}, math.Pi/2)
	bot, err := w.AddArticulatedSystem("aliengo")
	if err != nil {
		t.Fatal(err)
	}
	bot.Robot.SetName("dog")

	f := Snapshot(w, "dog")
	if len(f.Grounds) != 0 {
		t.Fatalf("hidden ground drawn: %v", f.Grounds)
	}
	if len(f.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(f.Items))
	}
	b := f.Items[0]
	if b.Shape != Cube || b.Position != ([3]float32{4, 6, -5}) || b.Scale != ([3]float32{1, 3, 2}) {
		t.Fatalf("box item = %+v", b)
	}
	if b.Color != Palette("red") {
		t.Fatalf("box color = %v", b.Color)
	}
	if s := f.Items[1]; s.Shape != Sphere || s.Scale[0] != 1 {
		t.Fatalf("sphere item = %+v", s)
	}
	c := f.Items[2]
	if c.Shape != Cylinder || c.Scale != ([3]float32{0.5, 2, 0.5}) {
		t.Fatalf("cylinder item = %+v", c)
	}
	// world Z is viewer Y
	if !near(c.Angle, math.Pi/2) || !near(c.Axis[1], 1) {
		t.Fatalf("cylinder rotation = %v about %v", c.Angle, c.Axis)
	}
	if !f.Focused || f.Focus != f.Items[3].Position {
		t.Fatalf("focus = %v (%v), want robot at %v", f.Focus, f.Focused, f.Items[3].Position)
	}
}

func TestTerrain(t *testing.T) {
	w := physics.NewWorld()
	hm, err := terrain.New(2, 2, 10, 20, 5, -5, []float64{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	w.AddHeightMap(hm, "")
	f := Snapshot(w, "")
	if len(f.Terrains) != 1 {
		t.Fatalf("terrains = %d", len(f.Terrains))
	}
	tr := f.Terrains[0]
	if tr.Origin != ([3]float32{0, 0, -5}) || tr.Size != ([3]float32{10, 3, 20}) {
		t.Fatalf("terrain placement = %v %v", tr.Origin, tr.Size)
	}
	v := tr.Version
	if err := hm.Update(5, -5, 10, 20, []float64{0, 1, 2, 4}); err != nil {
		t.Fatal(err)
	}
	if Version(hm) == v {
		t.Fatal("version unchanged after update")
	}
}

func TestPalette(t *testing.T) {
	cases := []struct {
		name string
		want color.RGBA
	}{
		{"brown", color.RGBA{139, 69, 19, 255}},
		{"#0a0B0c", color.RGBA{10, 11, 12, 255}},
		{"#zzzzzz", fallback},
		{"", fallback},
		{"chartreuse", fallback},
	}
	for _, tc := range cases {
		if got := Palette(tc.name); got != tc.want {
			t.Errorf("Palette(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOrbit(t *testing.T) {
	o := Orbit{Distance: 10}
	if eye := o.Eye([3]float32{1, 2, 3}); !near(eye[0], 11) || !near(eye[1], 2) || !near(eye[2], 3) {
		t.Fatalf("Eye = %v", eye)
	}
	o.Rotate(0, 10)
	if o.Pitch != maxPitch {
		t.Fatalf("pitch = %v, want clamp at %v", o.Pitch, maxPitch)
	}
	o.Zoom(1000)
	if o.Distance != maxDistance {
		t.Fatalf("distance = %v", o.Distance)
	}
	o.Zoom(0)
	if o.Distance != minDistance {
		t.Fatalf("distance = %v", o.Distance)
	}
}
