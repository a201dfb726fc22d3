package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sim-maps/internal/engineconfig"
	"sim-maps/internal/env"
	"sim-maps/internal/maps"
	"sim-maps/internal/robot"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	envFiles   []string
	rscDir     string
}

// load reads the dotenv files, then the config file with environment overrides, then
// applies --rsc.
func (g *globals) load() (engineconfig.Config, error) {
	if _, err := env.Load(g.envFiles...); err != nil {
		return engineconfig.Config{}, err
	}
	cfg, err := engineconfig.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if g.rscDir != "" {
		cfg.ResourceDir = g.rscDir
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "sim-maps",
		Short: "Run robot simulation maps",
		Long: `sim-maps runs one of the bundled demo maps against the reference physics
world. While it runs, an HTTP server reports the world state and a raylib window
can show it.

Run "sim-maps list" to see the available maps.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", engineconfig.ConfigPath, "YAML config file")
	root.PersistentFlags().StringSliceVar(&g.envFiles, "env", []string{".env"}, "dotenv files loaded before the config")
	root.PersistentFlags().StringVar(&g.rscDir, "rsc", "", "resource directory (overrides resource_dir)")

	root.AddCommand(
		newRunCmd(g),
		newListCmd(),
		newConfigCmd(g),
		newAssetsCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print the sim-maps version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "sim-maps %s\n", version)
			},
		},
	)
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range maps.Programs() {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Summary)
			}
			fmt.Fprintf(tw, "\nrobots:\t%s\n", strings.Join(robot.Models(), ", "))
			return tw.Flush()
		},
	}
}
