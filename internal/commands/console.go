package commands

import (
	"fmt"
	"strconv"
)

// Target is what the simulation console controls.
type Target interface {
	SwitchScene(id int) error
	NextScene() error
	FocusOn(name string) error
	SetMap(name string) error
	Status() string
}

// NewConsole returns a registry with the simulation subcommands bound to t:
//
//	cmd scene <id>
//	cmd next
//	cmd focus [name]
//	cmd map <name>
//	cmd status
//	cmd help
func NewConsole(t Target, r *Registry) *Registry {
	r.Register("scene", "<id>  switch to scene id", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("commands: scene: want one id, got %d args", len(args))
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("commands: scene: %w", err)
		}
		return t.SwitchScene(id)
	})
	r.Register("next", "switch to the next scene", nil, func([]string) error {
		return t.NextScene()
	})

	r.Register("focus", "[name]  point the camera at an object, or the first robot", nil, func(args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return t.FocusOn(name)
	})
	r.Register("map", "<name>  set the background map", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("commands: map: want one name, got %d args", len(args))
		}
		return t.SetMap(args[0])
	})
	r.Register("status", "print simulation status", nil, func([]string) error {
		fmt.Fprintln(r.out, t.Status())
		return nil
	})
	r.Register("help", "list commands", nil, func([]string) error {
		r.Help()
		return nil
	})
	return r
}
