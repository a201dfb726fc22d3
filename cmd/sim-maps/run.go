package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sim-maps/internal/engineconfig"
	"sim-maps/internal/input"
	"sim-maps/internal/logger"
	"sim-maps/internal/maps"
	"sim-maps/internal/physics"
	"sim-maps/internal/rsc"
	"sim-maps/internal/server"
	"sim-maps/internal/telemetry"
	"sim-maps/internal/viewer"
)

const (
	telemetryBuffer  = 4096
	telemetryTimeout = 2 * time.Second
)

type runFlags struct {
	steps    int
	viewer   bool
	realtime bool
	addr     string
}

func newRunCmd(g *globals) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <map>",
		Short: "Run a map",
		Long: `Run a map until it finishes or is interrupted.

While it runs, lines typed on stdin are delivered to the map: "cmd help" lists
console commands, and maps with scenes switch on Enter or a scene number.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: maps.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("viewer") {
				cfg.Viewer.Enabled = f.viewer
			}
			if cmd.Flags().Changed("realtime") {
				cfg.Server.Realtime = f.realtime
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = f.addr
			}
			return runMap(cmd, g, cfg, args[0], f.steps)
		},
	}
	cmd.Flags().IntVar(&f.steps, "steps", 0, "override the map's iteration count (0 keeps it)")
	cmd.Flags().BoolVar(&f.viewer, "viewer", false, "open the 3D window")
	cmd.Flags().BoolVar(&f.realtime, "realtime", true, "pace the loop to the world time step")
	cmd.Flags().StringVar(&f.addr, "addr", "", `HTTP listen address ("" disables the server)`)
	return cmd
}

func runMap(cmd *cobra.Command, g *globals, cfg engineconfig.Config, name string, steps int) error {
	prog, err := maps.Lookup(name)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Level())
	lg, err := logger.New(logger.Options{File: cfg.Log.File, Level: level, JSON: cfg.Log.JSON})
	if err != nil {
		lg.Warn("log file unavailable", slog.Any("err", err))
	}
	defer lg.Close()
	log := lg.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := rsc.Resolve(cfg.ResourceDir, os.Args[0])
	activate(log, cfg.ActivationKey, dir.ActivationKey())

	sink := telemetry.Discard
	if cfg.Telemetry.Redis {
		rcfg, err := telemetry.RedisConfigFromEnv()
		if err != nil {
			return err
		}
		if cfg.Telemetry.RedisAddr != "" {
			rcfg.Addr = cfg.Telemetry.RedisAddr
		}
		rs, err := telemetry.NewRedisSink(ctx, rcfg)
		if err != nil {
			log.Warn("telemetry disabled", slog.Any("err", err))
		} else {
			async := telemetry.NewAsync(rs, telemetryBuffer, telemetryTimeout)
			sink = async
			defer func() {
				if err := async.Close(); err != nil {
					log.Warn("telemetry close", slog.Any("err", err))
				}
				if n := async.Dropped(); n > 0 {
					log.Warn("telemetry samples dropped", slog.Int64("count", n))
				}
			}()
			log.Info("telemetry to redis", slog.String("addr", rs.Config().Addr), slog.Int64("maxlen", rs.Config().MaxLen))
		}
	}

	keys := input.NewMailbox[string]()
	srv := server.New(physics.NewWorld(),
		server.Config{Addr: cfg.Server.Addr, Realtime: cfg.Server.Realtime, Map: cfg.Server.Map},
		server.WithLogger(log),
		server.WithSink(sink),
		server.WithLogLines(lg.Lines),
		server.WithRequests(keys),
	)
	if cfg.Server.Addr != "" {
		if err := srv.Launch(ctx); err != nil {
			return err
		}
		defer func() {
			if err := srv.Kill(); err != nil && !errors.Is(err, server.ErrNotRunning) {
				log.Warn("server shutdown", slog.Any("err", err))
			}
		}()
		log.Info("server listening", slog.String("addr", srv.Addr()))
	}

	e, err := maps.NewEnv(srv, cfg, dir, keys, log, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	e.Steps = steps

	go func() {
		if err := input.Listen(ctx, cmd.InOrStdin(), keys); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("stdin", slog.Any("err", err))
		}
	}()
	if rsc.Exists(g.configPath) {
		go func() {
			err := engineconfig.Watch(ctx, g.configPath, log, func(c engineconfig.Config) {
				level.Set(c.Level())
				log.Info("config reloaded", slog.String("level", c.Level().String()))
			})
			if err != nil {
				log.Warn("config watch", slog.Any("err", err))
			}
		}()
	}

	log.Info("running map", slog.String("map", prog.Name), slog.String("rsc", string(dir)), slog.Bool("activated", physics.Activated()))
	if !cfg.Viewer.Enabled {
		return prog.Start(ctx, e)
	}

	simCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- prog.Start(simCtx, e)
		cancel()
	}()
	err = viewer.Run(simCtx, srv, viewer.Options{Width: cfg.Viewer.Width, Height: cfg.Viewer.Height, Title: "sim-maps: " + prog.Name})
	cancel()
	if simErr := <-done; simErr != nil {
		return simErr
	}
	return err
}

// activate loads the first readable activation key. Without one the engine runs
// unactivated, which only affects the log.
func activate(log *slog.Logger, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := physics.SetActivationKey(p); err == nil {
			log.Debug("activation key loaded", slog.String("path", p))
			return
		}
	}
	log.Warn("no activation key found", slog.Any("tried", paths))
}
