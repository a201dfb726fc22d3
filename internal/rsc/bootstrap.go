package rsc

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"sim-maps/internal/terrain"
)

// PlaceholderSize is the pixel size of generated height images.
const PlaceholderSize = 128

// Placeholder height images: the maps scale raw 16-bit pixels by 38/(37312-32482) and
// offset by -32650 of that, so pixel values around 32650 sit at height zero.
var placeholderMaps = []struct {
	name   string
	seed   int64
	relief float64
}{
	{"hill1", 11, 3000},
	{"lake1", 23, 800},
	{"mountain1", 37, 4800},
}

const (
	pixelBase = 32482
	meshCube  = "v -1 -1 -1\nv 1 -1 -1\nv 1 1 -1\nv -1 1 -1\nv -1 -1 1\nv 1 -1 1\nv 1 1 1\nv -1 1 1\n" +
		"f 1 2 3 4\nf 5 6 7 8\nf 1 2 6 5\nf 2 3 7 6\nf 3 4 8 7\nf 4 1 5 8\n"
)

// Bootstrap writes placeholder resources into d for every file that is missing: fractal
// height images, robot description stubs and box meshes. Existing files are kept. It
// returns the paths written.
func Bootstrap(d Dir) ([]string, error) {
	var written []string
	write := func(path string, data []byte) error {
		if Exists(path) {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("rsc: bootstrap: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("rsc: bootstrap: %w", err)
		}
		written = append(written, path)
		return nil
	}

	for _, m := range placeholderMaps {
		path := d.HeightMap(m.name)
		if Exists(path) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("rsc: bootstrap: %w", err)
		}
		if err := imgio.Save(path, heightImage(m.seed, m.relief), imgio.PNGEncoder()); err != nil {
			return written, fmt.Errorf("rsc: bootstrap %s: %w", path, err)
		}
		written = append(written, path)
	}
	for path, model := range map[string]string{
		d.Aliengo():        "aliengo",
		d.AnymalB():        "anymal",
		d.AnymalSensored(): "anymal_c",
	} {
		if err := write(path, []byte(fmt.Sprintf("<?xml version=\"1.0\"?>\n<robot name=%q/>\n", model))); err != nil {
			return written, err
		}
	}
	for _, mesh := range []string{"Lowpoly_tree_sample.obj", "Rock.obj", "stump_4.obj"} {
		if err := write(d.Mesh(mesh), []byte(meshCube)); err != nil {
			return written, err
		}
	}
	return written, nil
}

// heightImage renders fractal noise as a 16-bit grayscale image. Image columns run along
// world X, matching terrain.Loader.
func heightImage(seed int64, relief float64) *image.Gray16 {
	n := PlaceholderSize
	h := terrain.Fractal(n, n, terrain.FractalOptions{HeightScale: relief, Seed: seed})
	img := image.NewGray16(image.Rect(0, 0, n, n))
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(pixelBase + h[x*n+y])})
		}
	}
	return img
}
