package sensor

import "testing"

func TestSetLookup(t *testing.T) {
	set := &Set{Name: "depth_camera_front_camera_parent", Depth: NewDepthCamera(4, 3), Color: NewRGBCamera(4, 3)}
	d, err := set.DepthSensor("depth")
	if err != nil {
		t.Fatal(err)
	}
	if len(d.DepthArray()) != 12 {
		t.Fatalf("depth values = %d, want 12", len(d.DepthArray()))
	}
	c, err := set.RGBSensor("color")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.ImageBuffer()) != 48 {
		t.Fatalf("image bytes = %d, want 48", len(c.ImageBuffer()))
	}
	if _, err := set.DepthSensor("color"); err == nil {
		t.Fatal("expected error for wrong sensor name")
	}
}

func TestFillAndSource(t *testing.T) {
	d := NewDepthCamera(2, 2)
	d.SetMeasurementSource(SourceVisualizer)
	if d.MeasurementSource() != SourceVisualizer {
		t.Fatal("source not stored")
	}
	d.Fill(1.5)
	d.Lock()
	for _, v := range d.DepthArray() {
		if v != 1.5 {
			t.Fatalf("depth = %v, want 1.5", v)
		}
	}
	d.Unlock()

	c := NewRGBCamera(1, 1)
	c.Fill(128)
	c.Lock()
	defer c.Unlock()
	if b := c.ImageBuffer(); b[0] != 128 || b[3] != 255 {
		t.Fatalf("pixel = %v", b)
	}
}
