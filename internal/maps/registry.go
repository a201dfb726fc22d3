package maps

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMap is returned by Lookup for names not in the registry.
var ErrUnknownMap = errors.New("unknown map")

// Program is one runnable map.
type Program struct {
	Name    string
	Summary string
	// TimeStep is the world step the program runs at.
	TimeStep float64
	Run      func(ctx context.Context, e *Env) error
}

var programs = map[string]Program{}

func register(p Program) {
	if p.TimeStep == 0 {
		p.TimeStep = 0.001
	}
	programs[p.Name] = p
}

// Lookup returns the program registered as name.
func Lookup(name string) (Program, error) {
	p, ok := programs[name]
	if !ok {
		return Program{}, fmt.Errorf("maps: %q: %w", name, ErrUnknownMap)
	}
	return p, nil
}

// Names lists the registered programs in name order.
func Names() []string {
	out := make([]string, 0, len(programs))
	for n := range programs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Programs lists the registered programs in name order.
func Programs() []Program {
	names := Names()
	out := make([]Program, len(names))
	for i, n := range names {
		out[i] = programs[n]
	}
	return out
}

// Start sets the program's time step on the Env's world and runs it.
func (p Program) Start(ctx context.Context, e *Env) error {
	e.World.SetTimeStep(p.TimeStep)
	if err := p.Run(ctx, e); err != nil {
		return fmt.Errorf("maps: %s: %w", p.Name, err)
	}
	return nil
}
