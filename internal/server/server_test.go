package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sim-maps/internal/input"
	"sim-maps/internal/physics"
	"sim-maps/internal/telemetry"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *physics.World) {
	t.Helper()
	w := physics.NewWorld()
	w.AddGround(0, "concrete")
	return New(w, Config{Addr: "127.0.0.1:0", Map: "wheat"}, opts...), w
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusAndObjects(t *testing.T) {
	s, w := newTestServer(t)
	box := w.AddBox(1, 1, 1, 1, "steel")
	box.SetName("crate")
	box.SetPosition(1, 2, 3)
	s.IntegrateWorldThreadSafe()

	rec := do(t, s.Router(), http.MethodGet, "/api/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var st Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Steps != 1 || st.Objects != 2 || st.Map != "wheat" {
		t.Fatalf("status = %+v", st)
	}

	rec = do(t, s.Router(), http.MethodGet, "/api/objects", nil)
	var objs []ObjectView
	if err := json.NewDecoder(rec.Body).Decode(&objs); err != nil {
		t.Fatal(err)
	}
	if len(objs) != 2 || objs[1].Name != "crate" || objs[1].Kind != "box" || objs[0].Kind != "ground" {
		t.Fatalf("objects = %+v", objs)
	}
}

func TestFocusAndMap(t *testing.T) {
	s, w := newTestServer(t)
	if _, err := w.AddArticulatedSystem("anymal"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
	}{
		{"focus robot", "/api/focus", nameRequest{Name: ""}, http.StatusOK},
		{"focus ground", "/api/focus", nameRequest{Name: "ground"}, http.StatusOK},
		{"focus missing", "/api/focus", nameRequest{Name: "nope"}, http.StatusNotFound},
		{"map", "/api/map", nameRequest{Name: "hill1"}, http.StatusOK},
		{"empty map", "/api/map", nameRequest{}, http.StatusBadRequest},
		{"bad body", "/api/map", "[", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Router(), http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body)
			}
		})
	}
	if s.Focus() != "ground" || s.Map() != "hill1" {
		t.Fatalf("focus %q map %q", s.Focus(), s.Map())
	}
	if err := s.FocusOn(""); err != nil || s.Focus() != "anymal_b" {
		t.Fatalf("focus %q err %v", s.Focus(), err)
	}
}

func TestGraphs(t *testing.T) {
	sink := &telemetry.Memory{}
	s, _ := newTestServer(t, WithSink(sink))
	g := s.AddTimeSeriesGraph("joints", []string{"a", "b"}, "time", "rad")
	if s.AddTimeSeriesGraph("joints", nil, "", "") != g {
		t.Fatal("duplicate title created a new graph")
	}
	if err := g.AddDataPoints(0, []float64{1}); err == nil {
		t.Fatal("expected dimension error")
	}
	for i := 0; i < GraphHistory+5; i++ {
		if err := g.AddDataPoints(float64(i), []float64{float64(i), -float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	pts := g.Points()
	if len(pts) != GraphHistory || pts[0].T != 5 || g.Dropped() != 5 {
		t.Fatalf("len %d first %v dropped %d", len(pts), pts[0].T, g.Dropped())
	}
	if got := sink.Samples(); len(got) != GraphHistory+5 || got[3].Values["b"] != -3 {
		t.Fatalf("sink got %d samples", len(got))
	}

	rec := do(t, s.Router(), http.MethodGet, "/api/graphs", nil)
	var list []graphSummary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Points != GraphHistory {
		t.Fatalf("list = %+v", list)
	}
	if rec := do(t, s.Router(), http.MethodGet, "/api/graphs/joints", nil); rec.Code != http.StatusOK {
		t.Fatalf("graph code %d", rec.Code)
	}
	if rec := do(t, s.Router(), http.MethodGet, "/api/graphs/none", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing graph code %d", rec.Code)
	}
	if _, err := s.Graph("none"); !errors.Is(err, ErrUnknownGraph) {
		t.Fatalf("err = %v", err)
	}
	s.RemoveGraphs()
	if len(s.Graphs()) != 0 {
		t.Fatal("graphs not removed")
	}
}

func TestLogTail(t *testing.T) {
	s, _ := newTestServer(t, WithLogLines(func() []string { return []string{"a", "b", "c"} }))
	rec := do(t, s.Router(), http.MethodGet, "/api/log?tail=2", nil)
	var lines []string
	if err := json.NewDecoder(rec.Body).Decode(&lines); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "b" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestSceneRequests(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s.Router(), http.MethodPost, "/api/scene", SceneRequest{Next: true}); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d without mailbox", rec.Code)
	}

	mb := input.NewMailbox[string]()
	s, _ = newTestServer(t, WithRequests(mb))
	two := 2
	if rec := do(t, s.Router(), http.MethodPost, "/api/scene", SceneRequest{Scene: &two}); rec.Code != http.StatusAccepted {
		t.Fatalf("code = %d", rec.Code)
	}
	if v, ok := mb.TryTake(); !ok || v != "2" {
		t.Fatalf("mailbox %q/%v", v, ok)
	}
	do(t, s.Router(), http.MethodPost, "/api/scene", SceneRequest{Next: true})
	if v, ok := mb.TryTake(); !ok || v != input.Enter {
		t.Fatalf("mailbox %q/%v", v, ok)
	}
	if rec := do(t, s.Router(), http.MethodPost, "/api/scene", SceneRequest{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d for empty request", rec.Code)
	}
}

func TestLoop(t *testing.T) {
	s, w := newTestServer(t)
	err := s.Loop(context.Background(), 50, func(int) error {
		s.IntegrateWorldThreadSafe()
		return nil
	})
	if err != nil || w.Steps() != 50 {
		t.Fatalf("steps %d err %v", w.Steps(), err)
	}

	calls := 0
	err = s.Loop(context.Background(), 0, func(i int) error {
		calls++
		if i == 9 {
			return ErrStop
		}
		return nil
	})
	if err != nil || calls != 10 {
		t.Fatalf("calls %d err %v", calls, err)
	}

	boom := errors.New("boom")
	if err := s.Loop(context.Background(), 5, func(int) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Loop(ctx, 0, func(int) error { t.Fatal("ran after cancel"); return nil }); err != nil {
		t.Fatal(err)
	}
}

func TestLoopRealtimePacing(t *testing.T) {
	w := physics.NewWorld()
	w.SetTimeStep(0.01)
	s := New(w, Config{Realtime: true})
	start := time.Now()
	if err := s.Loop(context.Background(), 11, func(int) error { return nil }); err != nil {
		t.Fatal(err)
	}
	// The limiter allows the first iteration immediately.
	if took := time.Since(start); took < 90*time.Millisecond {
		t.Fatalf("11 paced iterations took %v", took)
	}
}

func TestLaunchAndKill(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.Kill(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Launch(ctx); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get(fmt.Sprintf("http://%s/api/status", s.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if err := s.Kill(); err != nil {
		t.Fatal(err)
	}
	if s.Running() {
		t.Fatal("still running after Kill")
	}
}

// hangingSink never returns before its context ends.
type hangingSink struct{}

func (hangingSink) Publish(ctx context.Context, _ telemetry.Sample) error {
	<-ctx.Done()
	return ctx.Err()
}

func (hangingSink) Close() error { return nil }

func TestGraphPublishIsBounded(t *testing.T) {
	s, _ := newTestServer(t, WithSink(hangingSink{}))
	g := s.AddTimeSeriesGraph("torque", []string{"a"}, "time", "Nm")
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.AddDataPoints(float64(i), []float64{1}); err != nil {
			t.Fatal(err)
		}
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("three points took %v against a hung sink", d)
	}
	if g.Len() != 3 {
		t.Fatalf("len = %d, want 3", g.Len())
	}
}
