package scatter

import (
	"math/rand/v2"
	"testing"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestGenerateInvariants(t *testing.T) {
	cases := []struct {
		name        string
		center      Point2D
		radius      float64
		count       int
		minDistance float64
	}{
		{"obstacle field", Point2D{10, 10}, 15, 100, 3},
		{"dense", Point2D{0, 0}, 5, 50, 0.5},
		{"no separation", Point2D{-3, 7}, 2, 20, 0},
		{"unit disk", Point2D{1, -1}, 1, 10, 0.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pts := Generate(seeded(42), tc.center, tc.radius, tc.count, tc.minDistance)
			if len(pts) > tc.count {
				t.Fatalf("got %d points, want at most %d", len(pts), tc.count)
			}
			for i, p := range pts {
				if d := Distance(p, tc.center); d > tc.radius+1e-9 {
					t.Fatalf("point %d at distance %v outside radius %v", i, d, tc.radius)
				}
				for j := i + 1; j < len(pts); j++ {
					if d := Distance(p, pts[j]); d < tc.minDistance {
						t.Fatalf("points %d and %d are %v apart, want >= %v", i, j, d, tc.minDistance)
					}
				}
			}
		})
	}
}

func TestGenerateZeroCount(t *testing.T) {
	for _, r := range []float64{0, 1, 100} {
		if pts := Generate(seeded(1), Point2D{}, r, 0, 3); len(pts) != 0 {
			t.Fatalf("radius %v: got %d points, want none", r, len(pts))
		}
	}
	if pts := Generate(seeded(1), Point2D{}, 5, -4, 0); len(pts) != 0 {
		t.Fatalf("negative count: got %d points", len(pts))
	}
}

func TestGenerateZeroRadius(t *testing.T) {
	center := Point2D{X: 4.5, Y: -2}
	pts := Generate(seeded(7), center, 0, 6, 0)
	if len(pts) != 6 {
		t.Fatalf("got %d points, want 6", len(pts))
	}
	for _, p := range pts {
		if p != center {
			t.Fatalf("got %+v, want center %+v", p, center)
		}
	}
	if pts := Generate(seeded(7), center, 0, 6, 0.1); len(pts) != 1 {
		t.Fatalf("with separation: got %d points, want 1", len(pts))
	}
}

func TestGenerateInfeasibleTerminates(t *testing.T) {
	pts := Generate(seeded(3), Point2D{}, 10, 5, 1000)
	if len(pts) >= 5 {
		t.Fatalf("got %d points, want fewer than 5", len(pts))
	}
	if len(pts) != 1 {
		t.Fatalf("got %d points, want exactly the first candidate", len(pts))
	}
}

// countingSource counts the 64-bit draws taken from the wrapped source.
type countingSource struct {
	src   rand.Source
	draws int
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func TestGenerateStopsAtAttemptCeiling(t *testing.T) {
	src := &countingSource{src: rand.NewPCG(1, 2)}
	pts := Generate(rand.New(src), Point2D{}, 10, 5, 1000)
	if len(pts) != 1 {
		t.Fatalf("got %d points, want 1", len(pts))
	}
	// two draws (angle, radius) per attempt, count*100 attempts
	if src.draws != 5*attemptsPerPoint*2 {
		t.Fatalf("draws = %d, want %d (500 attempts)", src.draws, 5*attemptsPerPoint*2)
	}

	src = &countingSource{src: rand.NewPCG(1, 2)}
	pts = Generate(rand.New(src), Point2D{}, 10, 5, 0)
	if len(pts) != 5 || src.draws != 10 {
		t.Fatalf("feasible request: %d points after %d draws, want 5 after 10", len(pts), src.draws)
	}
}

func TestGenerateDiffersAcrossSources(t *testing.T) {
	a := Generate(seeded(100), Point2D{}, 10, 8, 1)
	b := Generate(seeded(200), Point2D{}, 10, 8, 1)
	if len(a) == 0 || len(b) == 0 {
		t.Fatal("expected points from both sources")
	}
	if a[0] == b[0] {
		t.Fatalf("independent sources produced the same first point %+v", a[0])
	}
}

func TestRequestGenerateMatchesFunction(t *testing.T) {
	req := Request{Center: Point2D{2, 3}, Radius: 15, Count: 30, MinDistance: 3}
	got := req.Generate(seeded(9))
	want := Generate(seeded(9), req.Center, req.Radius, req.Count, req.MinDistance)
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGenerateNilSource(t *testing.T) {
	if pts := Generate(nil, Point2D{}, 3, 4, 0); len(pts) != 4 {
		t.Fatalf("got %d points, want 4", len(pts))
	}
}
