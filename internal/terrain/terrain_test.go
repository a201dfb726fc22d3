package terrain

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name     string
		xs, ys   int
		xsz, ysz float64
		n        int
	}{
		{"too few samples", 1, 4, 10, 10, 4},
		{"zero extent", 4, 4, 0, 10, 16},
		{"wrong length", 4, 4, 10, 10, 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.xs, tc.ys, tc.xsz, tc.ysz, 0, 0, make([]float64, tc.n)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHeightInterpolates(t *testing.T) {
	// 2x2 grid over [-1,1]^2: corners 0 at (-1,-1), 2 at (1,-1), 4 at (-1,1), 6 at (1,1).
	h, err := New(2, 2, 2, 2, 0, 0, []float64{0, 4, 2, 6})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		x, y, want float64
	}{
		{-1, -1, 0},
		{1, -1, 2},
		{-1, 1, 4},
		{1, 1, 6},
		{0, 0, 3},
		{5, -5, 2},
	}
	for _, tc := range cases {
		if got := h.Height(tc.x, tc.y); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Height(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
	if !h.Contains(0.5, -0.5) || h.Contains(1.5, 0) {
		t.Fatal("Contains disagrees with Bounds")
	}
}

func TestNewCopiesSamples(t *testing.T) {
	src := Flat(3, 3, 1)
	h, err := New(3, 3, 10, 10, 0, 0, src)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 99
	if h.Heights[0] != 1 {
		t.Fatal("height map aliases caller slice")
	}
	src[0] = 5
	if err := h.Update(1, 2, 20, 20, src); err != nil {
		t.Fatal(err)
	}
	if h.Heights[0] != 5 || h.CenterX != 1 || h.XSize != 20 {
		t.Fatalf("update not applied: %+v", h)
	}
	if err := h.Update(0, 0, 1, 1, []float64{1}); err == nil {
		t.Fatal("expected error for resized update")
	}
}

func TestWavesMatchesClosedForm(t *testing.T) {
	heights := Waves(100, 100,
		Wave{Amp: 3.0, FreqX: 0.2, FreqY: 0.15, CosY: true},
		Wave{Amp: 1.5, FreqX: 0.4, FreqY: 0.3},
	)
	x, y := 17, 42
	want := 3.0*math.Sin(float64(x)*0.2)*math.Cos(float64(y)*0.15) + 1.5*math.Sin(float64(x)*0.4)*math.Sin(float64(y)*0.3)
	if got := heights[x*100+y]; math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFractalRangeAndDeterminism(t *testing.T) {
	opts := DefaultFractalOptions()
	opts.Seed = 1234
	a := Fractal(16, 16, opts)
	b := Fractal(16, 16, opts)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for the same seed", i)
		}
		if a[i] < 0 || a[i] > opts.HeightScale {
			t.Fatalf("sample %d = %v out of [0, %v]", i, a[i], opts.HeightScale)
		}
	}
}

func TestColorByHeight(t *testing.T) {
	water := color.RGBA{0, 100, 255, 255}
	grass := color.RGBA{0, 255, 100, 255}
	rock := color.RGBA{139, 69, 19, 255}
	got := ColorByHeight([]float64{-2, 0, 3}, []Band{{Below: -1, Color: water}, {Below: 1, Color: grass}}, rock)
	want := []color.RGBA{water, grass, rock}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("color %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func writeGray16(t *testing.T, w, h int, px func(x, y int) uint16) string {
	t.Helper()
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray16(x, y, color.Gray16{Y: px(x, y)})
		}
	}
	path := filepath.Join(t.TempDir(), "hill.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderScalesPixelsAndCaches(t *testing.T) {
	path := writeGray16(t, 4, 3, func(x, y int) uint16 { return uint16(32482 + 100*x + 10*y) })
	l, err := NewLoader(2)
	if err != nil {
		t.Fatal(err)
	}
	scale := 38.0 / (37312 - 32482)
	spec := PNGSpec{Path: path, XSize: 504, YSize: 504, HeightScale: scale, HeightOffset: -32650 * scale}
	hm, err := l.Load(spec)
	if err != nil {
		t.Fatal(err)
	}
	if hm.XSamples != 4 || hm.YSamples != 3 {
		t.Fatalf("grid = %dx%d, want 4x3", hm.XSamples, hm.YSamples)
	}
	want := float64(32482+100*2+10*1)*scale - 32650*scale
	if got := hm.At(2, 1); math.Abs(got-want) > 1e-9 {
		t.Fatalf("At(2,1) = %v, want %v", got, want)
	}
	if !l.Cached(path) {
		t.Fatal("image not cached after load")
	}
	if _, err := l.Load(PNGSpec{Path: filepath.Join(t.TempDir(), "missing.png")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
