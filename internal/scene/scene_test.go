package scene

import (
	"errors"
	"testing"

	"sim-maps/internal/physics"
)

func boxes(w *physics.World, n int) func(s *Scene) error {
	return func(s *Scene) error {
		for i := 0; i < n; i++ {
			s.Track(w.AddBox(1, 1, 1, 1, "").Handle)
		}
		return nil
	}
}

func TestTeardownRemovesObjects(t *testing.T) {
	w := physics.NewWorld()
	w.AddGround(0, "")
	s := New("field")
	boxes(w, 3)(s)
	if w.Len() != 4 {
		t.Fatalf("len = %d, want 4", w.Len())
	}
	if err := s.Teardown(w); err != nil {
		t.Fatal(err)
	}
	if w.Len() != 1 || s.Len() != 0 {
		t.Fatalf("world %d scene %d after teardown", w.Len(), s.Len())
	}
	if err := s.Teardown(w); err != nil {
		t.Fatalf("second teardown: %v", err)
	}
}

func TestTeardownSkipsRemovedHandles(t *testing.T) {
	w := physics.NewWorld()
	s := New("x")
	b := w.AddBox(1, 1, 1, 1, "")
	s.Track(b.Handle)
	if err := w.RemoveObject(b.Handle); err != nil {
		t.Fatal(err)
	}
	if err := s.Teardown(w); err != nil {
		t.Fatalf("teardown: %v", err)
	}
}

type failingRemover struct{}

func (failingRemover) RemoveObject(physics.Handle) error { return errors.New("engine busy") }

func TestTeardownReportsErrors(t *testing.T) {
	s := New("x")
	s.Track("a")
	if err := s.Teardown(failingRemover{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestManagerSwitchAndNext(t *testing.T) {
	w := physics.NewWorld()
	m := NewManager(w, nil,
		Builder{Name: "one", Build: boxes(w, 1)},
		Builder{Name: "two", Build: boxes(w, 2)},
		Builder{Name: "three", Build: boxes(w, 3)},
	)
	if m.Current() != -1 || m.Scene() != nil {
		t.Fatal("manager starts with a scene")
	}

	tests := []struct {
		op        func() error
		wantIndex int
		wantLen   int
	}{
		{func() error { return m.Switch(1) }, 1, 2},
		{m.Next, 2, 3},
		{m.Next, 0, 1},
		{func() error { return m.Switch(7) }, 0, 1},
		{func() error { return m.Switch(-1) }, 0, 1},
		{func() error { return m.Switch(2) }, 2, 3},
	}
	for i, tt := range tests {
		if err := tt.op(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if m.Current() != tt.wantIndex || w.Len() != tt.wantLen {
			t.Fatalf("step %d: index %d objects %d, want %d/%d", i, m.Current(), w.Len(), tt.wantIndex, tt.wantLen)
		}
	}
}

func TestManagerTrackAndClear(t *testing.T) {
	w := physics.NewWorld()
	m := NewManager(w, nil, Builder{Name: "empty", Build: func(*Scene) error { return nil }})
	m.Track(w.AddSphere(1, 1, "").Handle)
	if w.Len() != 1 {
		t.Fatal("track without scene should not own the object")
	}
	if err := m.Switch(0); err != nil {
		t.Fatal(err)
	}
	m.Track(w.AddSphere(1, 1, "").Handle)
	if err := m.ClearCurrent(); err != nil {
		t.Fatal(err)
	}
	if w.Len() != 1 || m.Scene() != nil {
		t.Fatalf("objects = %d after clear", w.Len())
	}
}

func TestManagerBuildError(t *testing.T) {
	w := physics.NewWorld()
	boom := errors.New("boom")
	m := NewManager(w, nil, Builder{Name: "bad", Build: func(*Scene) error { return boom }})
	if err := m.Switch(0); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if err := m.Next(); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	empty := NewManager(w, nil)
	if err := empty.Next(); err != nil {
		t.Fatal(err)
	}
}
