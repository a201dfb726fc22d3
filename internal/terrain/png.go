package terrain

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
	lru "github.com/hashicorp/golang-lru/v2"
)

// PNGSpec places a grayscale PNG height image in the world. Each pixel value p (16-bit range)
// becomes the height p*HeightScale + HeightOffset.
type PNGSpec struct {
	Path         string
	CenterX      float64
	CenterY      float64
	XSize        float64
	YSize        float64
	HeightScale  float64
	HeightOffset float64
}

// decoded is the raw pixel grid of one image, before scale and offset.
type decoded struct {
	width, height int
	pixels        []uint16
}

// Loader decodes PNG height images and keeps the most recent ones in memory, so switching
// back and forth between scenes does not re-read the same file.
type Loader struct {
	cache *lru.Cache[string, *decoded]
}

// DefaultCacheSize is the number of decoded images a Loader keeps.
const DefaultCacheSize = 8

// NewLoader returns a loader caching up to size images. size <= 0 uses DefaultCacheSize.
func NewLoader(size int) (*Loader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *decoded](size)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	return &Loader{cache: c}, nil
}

// Load builds a height map from spec. Image columns run along world X and rows along world Y.
func (l *Loader) Load(spec PNGSpec) (*HeightMap, error) {
	d, err := l.decode(spec.Path)
	if err != nil {
		return nil, err
	}
	heights := make([]float64, d.width*d.height)
	for x := 0; x < d.width; x++ {
		for y := 0; y < d.height; y++ {
			p := d.pixels[y*d.width+x]
			heights[x*d.height+y] = float64(p)*spec.HeightScale + spec.HeightOffset
		}
	}
	return New(d.width, d.height, spec.XSize, spec.YSize, spec.CenterX, spec.CenterY, heights)
}

// Cached reports whether path is currently held in memory.
func (l *Loader) Cached(path string) bool {
	return l.cache.Contains(path)
}

func (l *Loader) decode(path string) (*decoded, error) {
	if d, ok := l.cache.Get(path); ok {
		return d, nil
	}
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("terrain: open %s: %w", path, err)
	}
	d := decodeGray16(img)
	if d.width < 2 || d.height < 2 {
		return nil, fmt.Errorf("terrain: %s is %dx%d, need at least 2x2", path, d.width, d.height)
	}
	l.cache.Add(path, d)
	return d, nil
}

func decodeGray16(img image.Image) *decoded {
	b := img.Bounds()
	d := &decoded{width: b.Dx(), height: b.Dy(), pixels: make([]uint16, b.Dx()*b.Dy())}
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			d.pixels[y*d.width+x] = g.Y
		}
	}
	return d
}
