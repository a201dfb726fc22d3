package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sim-maps/internal/rsc"
)

const fetchTimeout = 5 * time.Minute

func newAssetsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Populate the resource directory",
	}
	report := func(cmd *cobra.Command, d rsc.Dir, files []string) {
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files written under %s\n", len(files), d)
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "bootstrap",
			Short: "Write placeholder height images, robot descriptions and meshes that are missing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.load()
				if err != nil {
					return err
				}
				d := rsc.Resolve(cfg.ResourceDir, os.Args[0])
				files, err := rsc.Bootstrap(d)
				if err != nil {
					return err
				}
				report(cmd, d, files)
				return nil
			},
		},
		&cobra.Command{
			Use:   "fetch <url>",
			Short: "Download a zip of resources and unpack it into the resource directory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.load()
				if err != nil {
					return err
				}
				d := rsc.Resolve(cfg.ResourceDir, os.Args[0])
				client := &http.Client{Timeout: fetchTimeout}
				files, err := rsc.Fetch(cmd.Context(), client, args[0], d)
				if err != nil {
					return err
				}
				report(cmd, d, files)
				return nil
			},
		},
	)
	return cmd
}
