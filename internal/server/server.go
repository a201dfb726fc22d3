// Package server is the visualization server: it owns access to a physics world shared
// between the simulation loop and readers (HTTP API, 3D viewer), keeps time-series
// graphs, and paces the simulation loop.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"sim-maps/internal/input"
	"sim-maps/internal/physics"
	"sim-maps/internal/sensor"
	"sim-maps/internal/telemetry"
)

// ErrUnknownGraph is returned for graph titles that were never added.
var ErrUnknownGraph = errors.New("unknown graph")

// ErrNotRunning is returned by Kill before Launch.
var ErrNotRunning = errors.New("server not running")

// Config holds server configuration.
type Config struct {
	Addr     string
	Realtime bool
	Map      string
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.log = l } }

// WithSink forwards graph points to sink.
func WithSink(sink telemetry.Sink) Option { return func(s *Server) { s.sink = sink } }

// WithLogLines serves lines() on GET /api/log.
func WithLogLines(lines func() []string) Option { return func(s *Server) { s.lines = lines } }

// WithRequests delivers POST /api/scene requests to mb, the same mailbox the keyboard
// listener posts to.
func WithRequests(mb *input.Mailbox[string]) Option { return func(s *Server) { s.requests = mb } }

// Server wraps the world and the HTTP listener.
//
// Lock order is visMu before worldMu. Scene and terrain mutation happen under visMu
// (LockVisualizationServerMutex); stepping happens under worldMu; readers take both.
type Server struct {
	world *physics.World
	cfg   Config
	log   *slog.Logger

	visMu   sync.Mutex
	worldMu sync.Mutex

	mu       sync.RWMutex
	focus    string
	mapName  string
	graphs   map[string]*Graph
	order    []string
	httpSrv  *http.Server
	addr     string
	launched time.Time

	sink     telemetry.Sink
	lines    func() []string
	requests *input.Mailbox[string]
	router   *chi.Mux
}

// New returns a server for world. Nothing listens until Launch.
func New(world *physics.World, cfg Config, opts ...Option) *Server {
	s := &Server{
		world:   world,
		cfg:     cfg,
		log:     slog.New(slog.DiscardHandler),
		mapName: cfg.Map,
		graphs:  make(map[string]*Graph),
		sink:    telemetry.Discard,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// World returns the served world. Callers outside the simulation goroutine must hold
// the visualization mutex while touching it.
func (s *Server) World() *physics.World { return s.world }

// Router returns the underlying router, useful for tests.
func (s *Server) Router() http.Handler { return s.router }

// Addr returns the bound address after Launch, or the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.addr != "" {
		return s.addr
	}
	return s.cfg.Addr
}

// Launch binds the listener and serves in the background until ctx is done or Kill.
func (s *Server) Launch(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.httpSrv = srv
	s.addr = ln.Addr().String()
	s.launched = time.Now()
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server: serve", slog.String("err", err.Error()))
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Kill()
	}()
	s.log.Info("server: listening", slog.String("addr", s.addr))
	return nil
}

// Kill shuts the listener down. It is safe to call more than once.
func (s *Server) Kill() error {
	s.mu.Lock()
	srv := s.httpSrv
	s.httpSrv = nil
	s.mu.Unlock()
	if srv == nil {
		return ErrNotRunning
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("server: stopped")
	return nil
}

// Running reports whether the listener is up.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.httpSrv != nil
}

// LockVisualizationServerMutex blocks readers while the caller mutates the scene.
func (s *Server) LockVisualizationServerMutex() { s.visMu.Lock() }

// UnlockVisualizationServerMutex releases LockVisualizationServerMutex.
func (s *Server) UnlockVisualizationServerMutex() { s.visMu.Unlock() }

// IntegrateWorldThreadSafe advances the world by one step and renders the cameras that
// take their measurements from the visualizer.
func (s *Server) IntegrateWorldThreadSafe() {
	s.worldMu.Lock()
	s.world.Integrate()
	s.world.UpdateSensors(sensor.SourceVisualizer)
	s.worldMu.Unlock()
}

// View runs fn with both mutexes held, for readers of world state.
func (s *Server) View(fn func(w *physics.World)) {
	s.visMu.Lock()
	defer s.visMu.Unlock()
	s.worldMu.Lock()
	defer s.worldMu.Unlock()
	fn(s.world)
}

// FocusOn points the camera at the named object. An empty name picks the first robot.
func (s *Server) FocusOn(name string) error {
	var target string
	var err error
	s.View(func(w *physics.World) {
		if name == "" {
			for _, o := range w.Objects() {
				if o.Kind == physics.KindArticulated {
					target = o.Robot.Name()
					return
				}
			}
			err = fmt.Errorf("server: focus: no robot: %w", physics.ErrNoSuchObject)
			return
		}
		if _, ok := w.ObjectByName(name); !ok {
			err = fmt.Errorf("server: focus %q: %w", name, physics.ErrNoSuchObject)
			return
		}
		target = name
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.focus = target
	s.mu.Unlock()
	s.log.Debug("server: focus", slog.String("name", target))
	return nil
}

// FocusOnObject focuses o, which must already be named.
func (s *Server) FocusOnObject(o *physics.Object) {
	name := o.Name
	if o.Robot != nil {
		name = o.Robot.Name()
	}
	s.mu.Lock()
	s.focus = name
	s.mu.Unlock()
}

// Focus returns the focused object name.
func (s *Server) Focus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focus
}

// SetMap selects the background map drawn behind the scene.
func (s *Server) SetMap(name string) error {
	if name == "" {
		return errors.New("server: empty map name")
	}
	s.mu.Lock()
	s.mapName = name
	s.mu.Unlock()
	return nil
}

// Map returns the background map name.
func (s *Server) Map() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapName
}

// AddTimeSeriesGraph registers a graph with one series per name. Adding an existing
// title returns the existing graph.
func (s *Server) AddTimeSeriesGraph(title string, names []string, xLabel, yLabel string) *Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.graphs[title]; ok {
		return g
	}
	g := &Graph{
		Title:  title,
		Names:  append([]string(nil), names...),
		XLabel: xLabel,
		YLabel: yLabel,
		srv:    s,
	}
	s.graphs[title] = g
	s.order = append(s.order, title)
	return g
}

// Graph returns the graph with the given title.
func (s *Server) Graph(title string) (*Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[title]
	if !ok {
		return nil, fmt.Errorf("server: %q: %w", title, ErrUnknownGraph)
	}
	return g, nil
}

// Graphs returns all graphs in the order they were added.
func (s *Server) Graphs() []*Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Graph, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, s.graphs[t])
	}
	return out
}

// RemoveGraphs drops every graph, e.g. on scene switch.
func (s *Server) RemoveGraphs() {
	s.mu.Lock()
	s.graphs = make(map[string]*Graph)
	s.order = nil
	s.mu.Unlock()
}

// Status is a snapshot of the simulation.
type Status struct {
	Time     float64  `json:"time"`
	Steps    int64    `json:"steps"`
	TimeStep float64  `json:"time_step"`
	Objects  int      `json:"objects"`
	Map      string   `json:"map"`
	Focus    string   `json:"focus"`
	Graphs   []string `json:"graphs"`
	Uptime   string   `json:"uptime,omitempty"`
}

// Snapshot returns the current Status.
func (s *Server) Snapshot() Status {
	var st Status
	s.View(func(w *physics.World) {
		st.Time = w.WorldTime()
		st.Steps = w.Steps()
		st.TimeStep = w.TimeStep()
		st.Objects = w.Len()
	})
	s.mu.RLock()
	st.Map, st.Focus = s.mapName, s.focus
	st.Graphs = append([]string{}, s.order...)
	if !s.launched.IsZero() {
		st.Uptime = time.Since(s.launched).Round(time.Second).String()
	}
	s.mu.RUnlock()
	sort.Strings(st.Graphs)
	return st
}

// Status formats Snapshot for the console.
func (s *Server) Status() string {
	st := s.Snapshot()
	return fmt.Sprintf("t=%.3fs steps=%d objects=%d map=%s focus=%s", st.Time, st.Steps, st.Objects, st.Map, st.Focus)
}
