package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relaxui/relax/internal/demo"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		script string
		items  []string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay a script against the todo application",
		Long: `Mount the todo application on an in-memory host, replay a script of
user actions and print, after each one, the host mutations it caused and
the resulting HTML.

A script has one action per line:

  type <text>      type into the new-todo input
  add [text]       type text (if given) and press Add
  toggle <id>      tick or untick a todo
  remove <id>      remove a todo
  filter <name>    all, active or done
  clear            remove every done todo

Examples:
  relax demo
  relax demo --script actions.txt --pretty
  relax demo --items "Buy milk,Call mom"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, flags, script, items, pretty)
		},
	}

	cmd.Flags().StringVarP(&script, "script", "f", "", "Script file, - for stdin (default: built-in script)")
	cmd.Flags().StringSliceVar(&items, "items", nil, "Initial todos (default from relax.yaml)")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the printed HTML")

	return cmd
}

func runDemo(cmd *cobra.Command, flags *globalFlags, script string, items []string, pretty bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		cfg.App.Items = items
	}

	steps, err := readScript(cmd.InOrStdin(), script)
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
	rec, tracer := instruments(cfg)
	d := demo.New(demo.Options{
		Title:   cfg.App.Title,
		Items:   cfg.App.Items,
		Logger:  logger,
		Metrics: rec,
		Tracer:  tracer,
	})

	out := cmd.OutOrStdout()
	if err := d.Mount(); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	fmt.Fprintf(out, "## 0. mount\n%s\n", d.HTML(pretty))
	if err := d.Run(out, steps, pretty); err != nil {
		return err
	}
	if err := d.Unmount(); err != nil {
		return fmt.Errorf("unmount: %w", err)
	}
	success(out, "Replayed %d steps", len(steps))
	return nil
}

func readScript(stdin io.Reader, path string) ([]demo.Step, error) {
	var r io.Reader
	switch path {
	case "":
		r = strings.NewReader(demo.DefaultScript)
	case "-":
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		r = f
	}
	return demo.ParseScript(r)
}
