package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sim-maps/internal/telemetry"
)

// GraphHistory is the number of points a graph keeps; older points are dropped.
const GraphHistory = 2000

// publishTimeout bounds a sink call made from the simulation loop.
const publishTimeout = 50 * time.Millisecond

// Point is one sample of every series of a graph.
type Point struct {
	T      float64   `json:"t"`
	Values []float64 `json:"values"`
}

// Graph is a time-series widget with one series per name.
type Graph struct {
	Title  string
	Names  []string
	XLabel string
	YLabel string

	srv     *Server
	mu      sync.Mutex
	points  []Point
	dropped int
	sinkErr bool
}

// AddDataPoints appends a sample at time t. values must have one entry per series name.
func (g *Graph) AddDataPoints(t float64, values []float64) error {
	if len(values) != len(g.Names) {
		return fmt.Errorf("server: graph %q: %d values for %d series", g.Title, len(values), len(g.Names))
	}
	p := Point{T: t, Values: append([]float64(nil), values...)}

	g.mu.Lock()
	if len(g.points) == GraphHistory {
		copy(g.points, g.points[1:])
		g.points = g.points[:GraphHistory-1]
		g.dropped++
	}
	g.points = append(g.points, p)
	g.mu.Unlock()

	g.publish(p)
	return nil
}

func (g *Graph) publish(p Point) {
	if g.srv == nil || g.srv.sink == telemetry.Discard {
		return
	}
	vals := make(map[string]float64, len(g.Names))
	for i, n := range g.Names {
		vals[n] = p.Values[i]
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	err := g.srv.sink.Publish(ctx, telemetry.Sample{Graph: g.Title, Time: p.T, Values: vals})
	cancel()
	g.mu.Lock()
	first := err != nil && !g.sinkErr
	if err != nil {
		g.sinkErr = true
	}
	g.mu.Unlock()
	if first {
		g.srv.log.Warn("server: telemetry publish failed", slog.String("graph", g.Title), slog.String("err", err.Error()))
	}
}

// Points returns a copy of the retained history.
func (g *Graph) Points() []Point {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Point(nil), g.points...)
}

// Len returns the number of retained points.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.points)
}

// Dropped returns how many points fell out of the history.
func (g *Graph) Dropped() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dropped
}

// Clear drops the history.
func (g *Graph) Clear() {
	g.mu.Lock()
	g.points = g.points[:0]
	g.mu.Unlock()
}
