package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/router"
)

func initCmd() *cobra.Command {
	var (
		format string
		dir    string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write vroute.<format> with default settings and example routes.

Examples:
  vroute init
  vroute init --format yaml --dir deploy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := "." + format
			if format == "yml" {
				ext = ".yaml"
			}
			path := filepath.Join(dir, config.ConfigFileName+ext)

			if config.Exists(dir) && !force {
				return errors.Newf(errors.CategoryCLI, "a vroute config already exists in %s", dir).
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			cfg.Routes = []router.RouteDef{
				{Name: "home", Pattern: "/", End: true},
				{Name: "users", Pattern: "users", Children: []router.RouteDef{
					{Name: "user", Pattern: ":id", End: true},
				}},
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "File format: json, toml or yaml")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write into")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")

	return cmd
}
