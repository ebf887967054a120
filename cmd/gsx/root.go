package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/kilianc/gsxloc/internal/gsx/config"
	"github.com/kilianc/gsxloc/internal/gsx/logging"
)

type generateFlags struct {
	root         string
	dir          string
	injectSource bool
	jobs         int
}

func newRootCmd() *cobra.Command {
	var flags generateFlags
	root := &cobra.Command{
		Use:   "gsx [flags] [paths...]",
		Short: "Generate *.gsx.go files from .gsx sources",
		Long: `Generates one *.gsx.go file next to each *.gsx source.

Paths behave like Go patterns:
  - ./...        recurse from cwd
  - ./dir        only that directory (non-recursive)
  - ./dir/...    recurse from that directory
  - ./file.gsx   only that file

With --inject-source (or inject_source: true in gsx.yaml) every element is
stamped with data-source-* attributes pointing back to its .gsx position.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, args)
		},
	}
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default from gsx.yaml, else info)")
	addGenerateFlags(root, &flags)

	root.AddCommand(newGenerateCmd(), newLocateCmd(), newASTCmd(), newVersionCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate *.gsx.go files (same as running gsx without a subcommand)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, args)
		},
	}
	addGenerateFlags(cmd, &flags)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, flags *generateFlags) {
	cmd.Flags().StringVar(&flags.root, "root", "", "module root (defaults to auto-detected go.mod parent from cwd)")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "if set, only generate for this directory (non-recursive). Useful with go:generate.")
	cmd.Flags().BoolVar(&flags.injectSource, "inject-source", false, "stamp elements with their source location (overrides gsx.yaml)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "files compiled in parallel (default from gsx.yaml, else number of CPUs)")
}

func runGenerate(cmd *cobra.Command, flags generateFlags, patterns []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root := flags.root
	if root == "" {
		root, err = findModuleRoot(cwd)
		if err != nil {
			return err
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("inject-source") {
		cfg.InjectSource = flags.injectSource
	}
	if cmd.Flags().Changed("jobs") {
		if flags.jobs < 1 {
			return fmt.Errorf("gsx: --jobs must be at least 1")
		}
		cfg.Jobs = flags.jobs
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	var paths []string
	if strings.TrimSpace(flags.dir) != "" {
		if len(patterns) != 0 {
			return fmt.Errorf("gsx: cannot use --dir with positional paths")
		}
		dir := flags.dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cwd, dir)
		}
		paths, err = dirGSXPaths(dir)
	} else {
		if len(patterns) == 0 {
			patterns = []string{"./..."}
		}
		paths, err = collectGSXPaths(cwd, patterns, cfg.SkipDir)
	}
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Debug().Strs("patterns", patterns).Msg("no .gsx files found")
		return nil
	}

	g := &generator{moduleRoot: root, injectSource: cfg.InjectSource, jobs: cfg.Jobs, log: logger}
	if err := g.generateFiles(paths); err != nil {
		return err
	}
	logger.Info().Int("files", len(paths)).Bool("inject_source", cfg.InjectSource).Msg("generated")
	return nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*log.Logger, error) {
	level := cfg.LogLevel
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		level = l
	}
	return logging.New(cmd.ErrOrStderr(), level)
}
