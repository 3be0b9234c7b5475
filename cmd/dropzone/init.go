package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dropzone/internal/config"
	dzerrors "github.com/vango-dev/dropzone/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		force    bool
		upstream string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default dropzone.json",
		Long: `Write a dropzone.json with the default settings and create the
static directory the browser build is served from.

Examples:
  dropzone init
  dropzone init ./site --upstream=http://localhost:8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, upstream, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing dropzone.json")
	cmd.Flags().StringVarP(&upstream, "upstream", "u", "", "Application that handles the posted form")

	return cmd
}

func runInit(dir, upstream string, force bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	path := filepath.Join(abs, config.ConfigFileName)

	if config.Exists(abs) && !force {
		return dzerrors.Newf(dzerrors.CategoryCLI, "%s already exists", path).
			WithSuggestion("Use --force to overwrite it")
	}

	cfg := config.New()
	cfg.Name = filepath.Base(abs)
	cfg.Server.Upstream = upstream
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	static := cfg.StaticPath()
	if err := os.MkdirAll(static, 0755); err != nil {
		return err
	}

	success("Created %s", path)
	info("Build the browser widget into %s:", static)
	info("  GOOS=js GOARCH=wasm go build -o %s ./cmd/dropzone-wasm", filepath.Join(static, "dropzone.wasm"))
	info(`  cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" %s`, static)
	return nil
}
