package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/routepath"
)

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <base> <path> [from]",
		Short: "Resolve a navigation target",
		Long: `Resolve a path against a base path and an optional current path,
the way Push and Replace do.

Examples:
  vroute resolve /app users
  vroute resolve /app posts /app/users/1
  vroute resolve "" /users`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from := ""
			if len(args) == 3 {
				from = args[2]
			}
			resolved, ok := routepath.ResolvePath(args[0], args[1], from)
			if !ok {
				return errors.New(errors.CodeInvalidTarget).WithInput(args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), resolved)
			return nil
		},
	}
}

func matchCmd() *cobra.Command {
	var end bool

	cmd := &cobra.Command{
		Use:   "match <pattern> <path>",
		Short: "Match a path against a route pattern",
		Long: `Match a location path against a route pattern and print the
matched path and params.

Examples:
  vroute match /users/:id /users/42/posts
  vroute match /users/:id /users/42 --end
  vroute match "/files/*" /files/a/b.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, err := routepath.CreateMatcher(args[0], routepath.MatcherOptions{End: end})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			m := matcher(args[1])
			if m == nil {
				fmt.Fprintln(w, "no match")
				return nil
			}
			fmt.Fprintf(w, "path: %s\n", m.Path)
			for _, k := range sortedKeys(m.Params) {
				fmt.Fprintf(w, "  %s = %s\n", k, m.Params[k])
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&end, "end", "e", false, "Require the whole path to match")

	return cmd
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <query-string>",
		Short: "Parse a query string",
		Long: `Parse a query string into the key/value view routers expose.
For repeated keys the last value wins.

Example:
  vroute query "q=go&page=2&tag=a&tag=b"`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			q := routepath.ParseQuery(args[0])
			w := cmd.OutOrStdout()
			for _, k := range sortedKeys(q) {
				fmt.Fprintf(w, "%s = %s\n", k, q[k])
			}
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
