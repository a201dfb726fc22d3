// Package scene groups world objects so that a whole layout can be swapped at runtime.
package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"sim-maps/internal/physics"
)

// Remover deletes an object from the engine. *physics.World satisfies it.
type Remover interface {
	RemoveObject(h physics.Handle) error
}

// Scene is a named collection of object handles owned by one layout.
type Scene struct {
	Name    string
	handles []physics.Handle
}

// New returns an empty scene.
func New(name string) *Scene {
	return &Scene{Name: name}
}

// Track adds h to the scene.
func (s *Scene) Track(h physics.Handle) {
	s.handles = append(s.handles, h)
}

// Handles returns a copy of the tracked handles in insertion order.
func (s *Scene) Handles() []physics.Handle {
	return append([]physics.Handle(nil), s.handles...)
}

// Len returns the number of tracked handles.
func (s *Scene) Len() int { return len(s.handles) }

// Teardown removes every tracked object through r and empties the scene. Handles the
// engine no longer knows are skipped; other errors are joined and returned.
func (s *Scene) Teardown(r Remover) error {
	var errs []error
	for _, h := range s.handles {
		if err := r.RemoveObject(h); err != nil && !errors.Is(err, physics.ErrNoSuchObject) {
			errs = append(errs, err)
		}
	}
	s.handles = s.handles[:0]
	if len(errs) > 0 {
		return fmt.Errorf("scene %s: teardown: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// Builder populates a freshly created scene. It tracks what it adds via s.Track.
type Builder struct {
	Name  string
	Build func(s *Scene) error
}

// Manager owns a fixed list of scene builders and keeps at most one scene alive.
type Manager struct {
	world    Remover
	builders []Builder
	current  *Scene
	index    int
	log      *slog.Logger
}

// NewManager returns a manager with no active scene. A nil logger discards output.
func NewManager(world Remover, log *slog.Logger, builders ...Builder) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager{world: world, builders: builders, index: -1, log: log}
}

// Count returns the number of registered scenes.
func (m *Manager) Count() int { return len(m.builders) }

// Current returns the active scene index, or -1 before the first Switch.
func (m *Manager) Current() int { return m.index }

// Scene returns the active scene, or nil.
func (m *Manager) Scene() *Scene { return m.current }

// Switch tears down the active scene and builds scene id. Out-of-range ids are ignored
// and leave the active scene in place.
func (m *Manager) Switch(id int) error {
	if id < 0 || id >= len(m.builders) {
		m.log.Warn("scene: ignoring switch", slog.Int("id", id), slog.Int("count", len(m.builders)))
		return nil
	}
	if err := m.ClearCurrent(); err != nil {
		return err
	}
	b := m.builders[id]
	s := New(b.Name)
	m.current, m.index = s, id
	if err := b.Build(s); err != nil {
		return fmt.Errorf("scene %s: build: %w", b.Name, err)
	}
	m.log.Info("scene: loaded", slog.Int("id", id), slog.String("name", b.Name), slog.Int("objects", s.Len()))
	return nil
}

// Next switches to the scene after the active one, wrapping around.
func (m *Manager) Next() error {
	if len(m.builders) == 0 {
		return nil
	}
	return m.Switch((m.index + 1) % len(m.builders))
}

// Track adds h to the active scene. Without an active scene it does nothing.
func (m *Manager) Track(h physics.Handle) {
	if m.current != nil {
		m.current.Track(h)
	}
}

// ClearCurrent tears down the active scene, if any.
func (m *Manager) ClearCurrent() error {
	if m.current == nil {
		return nil
	}
	s := m.current
	m.current = nil
	return s.Teardown(m.world)
}
