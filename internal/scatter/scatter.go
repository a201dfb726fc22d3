// Package scatter places points in a disk by rejection sampling, keeping a minimum distance
// between any two of them.
package scatter

import (
	"math"
	"math/rand/v2"
	"time"
)

// attemptsPerPoint bounds rejection sampling: a request for n points gives up after n*attemptsPerPoint draws.
const attemptsPerPoint = 100

// Point2D is a position on the ground plane (world X/Y).
type Point2D struct {
	X, Y float64
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Request describes one scatter: Count points inside the disk (Center, Radius), each pair at least MinDistance apart.
type Request struct {
	Center      Point2D
	Radius      float64
	Count       int
	MinDistance float64
}

// Generate runs the request against rng. See the package-level Generate.
func (r Request) Generate(rng *rand.Rand) []Point2D {
	return Generate(rng, r.Center, r.Radius, r.Count, r.MinDistance)
}

// NewSource returns a random source seeded from the clock. Each caller should own its source;
// *rand.Rand is not safe for concurrent use.
func NewSource() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate draws up to count points inside the disk around center using rejection sampling.
// A candidate closer than minDistance to an already accepted point is rejected. After count*100
// draws (accepted or not) the points found so far are returned, so the result may be shorter
// than count; this is not an error.
//
// The radial distance is uniform in [0, radius], not uniform in area, so points cluster toward
// the center. Obstacle placement relies on that density around the spawn point.
//
// A nil rng gets a fresh clock-seeded source.
func Generate(rng *rand.Rand, center Point2D, radius float64, count int, minDistance float64) []Point2D {
	if count <= 0 {
		return []Point2D{}
	}
	if rng == nil {
		rng = NewSource()
	}
	points := make([]Point2D, 0, count)
	maxAttempts := count * attemptsPerPoint
	for attempts := 0; len(points) < count && attempts < maxAttempts; attempts++ {
		angle := rng.Float64() * 2 * math.Pi
		r := rng.Float64() * radius
		p := Point2D{
			X: center.X + r*math.Cos(angle),
			Y: center.Y + r*math.Sin(angle),
		}
		if tooClose(p, points, minDistance) {
			continue
		}
		points = append(points, p)
	}
	return points
}

func tooClose(p Point2D, accepted []Point2D, minDistance float64) bool {
	for _, q := range accepted {
		if Distance(p, q) < minDistance {
			return true
		}
	}
	return false
}
