package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/integration"
	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
)

func simulateCmd() *cobra.Command {
	var (
		maxHistory int
		strict     bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <script>",
		Short: "Replay a navigation script",
		Long: `Replay a navigation script against an in-memory history and print
every step, every history write and the final history stack.

The script format follows its extension (.json, .toml, .yaml):

  base: /app
  routes:
    - name: users
      pattern: users
      children:
        - name: user
          pattern: ":id"
          end: true
  redirects:
    - from: /legacy/:id
      to: /users
  steps:
    - push: /users/1
    - batch:
        - push: /users/2
        - replace: /users/3
    - go: -1

Examples:
  vroute simulate nav.yaml
  vroute simulate nav.json --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := config.LoadScript(args[0])
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			s, err := runSimulation(cmd.OutOrStdout(), script, simulateOptions{
				MaxHistory: maxHistory,
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			if strict && s.failed > 0 {
				return fmt.Errorf("%d step(s) failed", s.failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxHistory, "max-history", config.DefaultMaxHistory, "Maximum history entries")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when a step fails")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log router activity")

	return cmd
}

type simulateOptions struct {
	MaxHistory int
	Logger     *slog.Logger
}

// simulation replays a script. Everything runs on the calling goroutine.
type simulation struct {
	w       io.Writer
	history *integration.MemoryHistory
	router  *router.Router
	table   *router.Table
	failed  int
}

// runSimulation mounts a router over a memory history, runs the script's
// steps and prints the final stack.
func runSimulation(w io.Writer, script *config.Script, opts simulateOptions) (*simulation, error) {
	defer reactive.Release()

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &simulation{
		w:       w,
		history: integration.NewMemoryHistory(script.Initial, opts.MaxHistory),
	}

	var err error
	root := reactive.Root(func(*reactive.Owner) {
		err = s.mount(script, opts.Logger)
	})
	defer root.Dispose()
	if err != nil {
		return nil, err
	}

	s.report()
	for _, step := range script.Steps {
		s.run(step, "")
		s.report()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "history:")
	index := s.history.Index()
	for i, entry := range s.history.Entries() {
		marker := " "
		if i == index {
			marker = ">"
		}
		fmt.Fprintf(w, " %s %d %s\n", marker, i, entry)
	}
	return s, nil
}

func (s *simulation) mount(script *config.Script, logger *slog.Logger) error {
	integ := router.CreateIntegration(
		s.history.Current,
		func(u router.RouteUpdate) {
			s.history.Write(u)
			fmt.Fprintf(s.w, "  commit %s %s\n", u.Mode, u.Value)
		},
		s.history.Listen,
		router.Utils{},
	)

	r, err := router.New(integ, script.Base, router.WithLogger(logger))
	if err != nil {
		return err
	}
	table, err := router.Declare(r, script.Routes)
	if err != nil {
		return err
	}
	s.router, s.table = r, table

	var rerr error
	r.Run(func() {
		for _, rd := range script.Redirects {
			if rerr = s.redirect(rd); rerr != nil {
				return
			}
		}
	})
	return rerr
}

// redirect installs an effect replacing the location with rd.To whenever
// the path matches rd.From exactly.
func (s *simulation) redirect(rd config.Redirect) error {
	r := s.router
	from, ok := r.Base.ResolvePath(rd.From)
	if !ok {
		return errors.New(errors.CodeInvalidRoutePath).WithInput(rd.From)
	}
	matcher, err := r.Utils.CreateMatcher(from, routepath.MatcherOptions{End: true})
	if err != nil {
		return errors.FromError(err, errors.CodeInvalidPattern)
	}

	to := rd.To
	reactive.CreateEffect(func() reactive.Cleanup {
		if matcher(r.Path()) == nil {
			return nil
		}
		if err := r.Replace(to); err != nil {
			s.fail("", err)
		}
		return nil
	}, reactive.EffectName("simulate.redirect"))
	return nil
}

func (s *simulation) run(step config.Step, indent string) {
	switch step.Kind() {
	case "push":
		fmt.Fprintf(s.w, "%spush %s\n", indent, step.Push)
		if err := s.router.Push(step.Push); err != nil {
			s.fail(indent, err)
		}

	case "replace":
		fmt.Fprintf(s.w, "%sreplace %s\n", indent, step.Replace)
		if err := s.router.Replace(step.Replace); err != nil {
			s.fail(indent, err)
		}

	case "go":
		fmt.Fprintf(s.w, "%sgo %s\n", indent, strconv.Itoa(step.Go))
		if !s.history.Go(step.Go) {
			s.fail(indent, fmt.Errorf("history has no entry at offset %d", step.Go))
		}

	case "batch":
		fmt.Fprintf(s.w, "%sbatch\n", indent)
		reactive.Batch(func() {
			for _, sub := range step.Batch {
				s.run(sub, indent+"  ")
			}
		})
	}
}

func (s *simulation) fail(indent string, err error) {
	s.failed++
	fmt.Fprintf(s.w, "%s  error %v\n", indent, err)
}

// report prints the current location and the matching routes.
func (s *simulation) report() {
	matches := s.table.Matching()
	if len(matches) == 0 {
		fmt.Fprintf(s.w, "  at %s\n", s.router.Reference())
		return
	}
	fmt.Fprintf(s.w, "  at %s [%s]\n", s.router.Reference(), strings.Join(matches, " "))
}
