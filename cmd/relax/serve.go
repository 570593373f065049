package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relaxui/relax/internal/demo"
	"github.com/relaxui/relax/internal/inspect"
	"github.com/relaxui/relax/pkg/scheduler"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the todo application behind the inspector",
		Long: `Mount the todo application on an in-memory host and serve the live
inspector. Open the address in a browser to watch the tree and click
through it; every click is dispatched to the engine and the resulting
mutations are streamed back.

Examples:
  relax serve
  relax serve --addr=0.0.0.0:7070`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from relax.yaml)")

	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, addr string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Inspector.Addr = addr
	}

	logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
	rec, tracer := instruments(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := scheduler.NewLoop(0, logger)
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer cancelLoop()
	go loop.Run(loopCtx)

	sched := scheduler.New(loop,
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(rec),
		scheduler.WithTracer(tracer),
	)
	d := demo.New(demo.Options{
		Title:     cfg.App.Title,
		Items:     cfg.App.Items,
		Logger:    logger,
		Metrics:   rec,
		Tracer:    tracer,
		Scheduler: sched,
	})

	srv, err := inspect.New(inspect.Config{
		Document:      d.Doc,
		Container:     d.Container,
		Loop:          loop,
		Logger:        logger,
		Metrics:       rec,
		MutationLimit: cfg.Inspector.MutationLimit,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	var mountErr error
	if err := loop.Do(ctx, func() { mountErr = d.Mount() }); err != nil {
		return err
	}
	if mountErr != nil {
		return fmt.Errorf("mount: %w", mountErr)
	}

	out := cmd.OutOrStdout()
	success(out, "Inspector on http://%s", cfg.Inspector.Addr)
	if rec != nil {
		info(out, "Metrics at http://%s/metrics", cfg.Inspector.Addr)
	}

	if err := srv.ListenAndServe(ctx, cfg.Inspector.Addr); err != nil {
		return err
	}

	var unmountErr error
	if err := loop.Do(context.Background(), func() { unmountErr = d.Unmount() }); err != nil {
		return err
	}
	info(out, "Shut down")
	return unmountErr
}
