package sensor

import (
	"fmt"
	"sort"
	"sync"
)

// Source selects who produces measurements: the engine itself or the visualizer.
type Source int

const (
	SourceEngine Source = iota
	SourceVisualizer
)

func (s Source) String() string {
	if s == SourceVisualizer {
		return "visualizer"
	}
	return "engine"
}

// Camera is the shared lock and measurement source of depth and color cameras.
// Callers must hold the lock (Lock/Unlock) while reading a buffer.
type Camera struct {
	mu     sync.Mutex
	Width  int
	Height int
	source Source
}

// Lock acquires the buffer lock.
func (c *Camera) Lock() { c.mu.Lock() }

// Unlock releases the buffer lock.
func (c *Camera) Unlock() { c.mu.Unlock() }

// SetMeasurementSource chooses who fills the buffer.
func (c *Camera) SetMeasurementSource(s Source) {
	c.mu.Lock()
	c.source = s
	c.mu.Unlock()
}

// MeasurementSource returns the configured source.
func (c *Camera) MeasurementSource() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// DepthCamera produces Width*Height depth values in meters.
type DepthCamera struct {
	Camera
	depth []float32
}

// NewDepthCamera returns a depth camera with a zeroed buffer.
func NewDepthCamera(width, height int) *DepthCamera {
	return &DepthCamera{Camera: Camera{Width: width, Height: height}, depth: make([]float32, width*height)}
}

// DepthArray returns the depth buffer. Hold the lock while reading it.
func (d *DepthCamera) DepthArray() []float32 { return d.depth }

// Fill sets every depth value to v under the lock.
func (d *DepthCamera) Fill(v float32) {
	d.mu.Lock()
	for i := range d.depth {
		d.depth[i] = v
	}
	d.mu.Unlock()
}

// RGBCamera produces Width*Height BGRA pixels.
type RGBCamera struct {
	Camera
	image []byte
}

// NewRGBCamera returns a color camera with a zeroed buffer.
func NewRGBCamera(width, height int) *RGBCamera {
	return &RGBCamera{Camera: Camera{Width: width, Height: height}, image: make([]byte, width*height*4)}
}

// ImageBuffer returns the pixel buffer. Hold the lock while reading it.
func (r *RGBCamera) ImageBuffer() []byte { return r.image }

// Fill paints every pixel with the given gray level under the lock.
func (r *RGBCamera) Fill(gray byte) {
	r.mu.Lock()
	for i := 0; i < len(r.image); i += 4 {
		r.image[i], r.image[i+1], r.image[i+2], r.image[i+3] = gray, gray, gray, 255
	}
	r.mu.Unlock()
}

// Set is the group of sensors on one mount (e.g. "depth_camera_front_camera_parent").
// Each mount carries at most one "depth" and one "color" camera.
type Set struct {
	Name  string
	Depth *DepthCamera
	Color *RGBCamera
	// MountHeight is the mount's height above the robot base, used to synthesize depth.
	MountHeight float64
}

// DepthSensor returns the named depth camera.
func (s *Set) DepthSensor(name string) (*DepthCamera, error) {
	if name != "depth" || s.Depth == nil {
		return nil, fmt.Errorf("sensor: no depth sensor %q on %s", name, s.Name)
	}
	return s.Depth, nil
}

// RGBSensor returns the named color camera.
func (s *Set) RGBSensor(name string) (*RGBCamera, error) {
	if name != "color" || s.Color == nil {
		return nil, fmt.Errorf("sensor: no color sensor %q on %s", name, s.Name)
	}
	return s.Color, nil
}

// Sets is keyed by mount name.
type Sets map[string]*Set

// Names returns the mount names in sorted order.
func (s Sets) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
