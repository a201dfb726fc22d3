package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sim-maps/internal/input"
	"sim-maps/internal/physics"
)

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.accessLogger)

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/objects", s.handleObjects)
	r.Get("/api/graphs", s.handleGraphs)
	r.Get("/api/graphs/{title}", s.handleGraph)
	r.Get("/api/log", s.handleLog)
	r.Post("/api/map", s.handleMap)
	r.Post("/api/focus", s.handleFocus)
	r.Post("/api/scene", s.handleScene)
	return r
}

func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("server: request",
			slog.String("remote", r.RemoteAddr),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// ObjectView is the JSON form of a world object.
type ObjectView struct {
	Handle      physics.Handle `json:"handle"`
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Appearance  string         `json:"appearance,omitempty"`
	Material    string         `json:"material,omitempty"`
	BodyType    string         `json:"body_type"`
	Position    [3]float64     `json:"position"`
	Orientation [4]float64     `json:"orientation"`
	Velocity    [3]float64     `json:"velocity"`
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	var out []ObjectView
	s.View(func(world *physics.World) {
		out = make([]ObjectView, 0, world.Len())
		for _, o := range world.Objects() {
			name := o.Name
			if o.Robot != nil {
				name = o.Robot.Name()
			}
			out = append(out, ObjectView{
				Handle:      o.Handle,
				Kind:        o.Kind.String(),
				Name:        name,
				Appearance:  o.Appearance,
				Material:    o.Material,
				BodyType:    o.BodyType.String(),
				Position:    o.Position,
				Orientation: o.Orientation,
				Velocity:    o.Velocity,
			})
		}
	})
	writeJSON(w, http.StatusOK, out)
}

type graphSummary struct {
	Title  string   `json:"title"`
	Names  []string `json:"names"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	Points int      `json:"points"`
}

type graphDetail struct {
	graphSummary
	Dropped int     `json:"dropped"`
	Data    []Point `json:"data"`
}

func summarize(g *Graph) graphSummary {
	return graphSummary{Title: g.Title, Names: g.Names, XLabel: g.XLabel, YLabel: g.YLabel, Points: g.Len()}
}

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	graphs := s.Graphs()
	out := make([]graphSummary, 0, len(graphs))
	for _, g := range graphs {
		out = append(out, summarize(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.Graph(chi.URLParam(r, "title"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, graphDetail{graphSummary: summarize(g), Dropped: g.Dropped(), Data: g.Points()})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	lines := []string{}
	if s.lines != nil {
		lines = s.lines()
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("tail")); err == nil && n >= 0 && n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	writeJSON(w, http.StatusOK, lines)
}

type nameRequest struct {
	Name string `json:"name"`
}

func decodeName(r *http.Request) (string, error) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	return req.Name, nil
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	name, err := decodeName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.SetMap(name); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"map": s.Map()})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	name, err := decodeName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.FocusOn(name); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, physics.ErrNoSuchObject) {
			code = http.StatusNotFound
		}
		writeError(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"focus": s.Focus()})
}

// SceneRequest asks the running map to switch scenes. Next wins over Scene.
type SceneRequest struct {
	Scene *int `json:"scene,omitempty"`
	Next  bool `json:"next,omitempty"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if s.requests == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("map does not switch scenes"))
		return
	}
	var req SceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var line string
	switch {
	case req.Next:
		line = input.Enter
	case req.Scene != nil:
		line = strconv.Itoa(*req.Scene)
	default:
		writeError(w, http.StatusBadRequest, errors.New("want scene or next"))
		return
	}
	s.requests.Post(line)
	writeJSON(w, http.StatusAccepted, map[string]string{"queued": line})
}
