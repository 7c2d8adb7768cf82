// File: cmd/root.go

// Package cmd implements the gptloader command line.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gptloader/pkg/combine"
	"gptloader/pkg/config"
	"gptloader/pkg/logging"
	"gptloader/pkg/version"
)

// rootOptions holds the raw flag values of the root command.
type rootOptions struct {
	configFile string
	preamble   string
	output     string
	clone      bool
	cloneDir   string
	gitBackend string
	noFallback bool
	ignore     []string
	include    []string
	debug      bool
}

// app carries state shared between the root command hooks and RunE.
type app struct {
	opts   rootOptions
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the gptloader command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{logger: zap.NewNop()})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gptloader <repository-path-or-url>",
		Short: "gptloader serializes a Git repository into a single text file",
		Long: `gptloader walks a local or remote Git repository and writes every file that
passes the .gptignore / .gptinclude patterns into one text document, ready to
be pasted into an LLM prompt.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configFile, "config", "", "Config file (default "+config.DefaultFile+" if present)")
	flags.BoolVar(&a.opts.debug, "debug", false, "Enable debug logging")

	local := rootCmd.Flags()
	local.StringVarP(&a.opts.preamble, "preamble", "p", "", "Path to a preamble file")
	local.StringVarP(&a.opts.output, "output", "o", "", "Path to the output file (default <repository name>.txt)")
	local.BoolVarP(&a.opts.clone, "clone", "d", false, "Clone the repository, or pull it if it was cloned before")
	local.StringVar(&a.opts.cloneDir, "clone-dir", "", "Directory clones are placed in (default working directory)")
	local.StringVar(&a.opts.gitBackend, "git-backend", "", "Git implementation: exec or native")
	local.BoolVar(&a.opts.noFallback, "no-fallback", false, "Do not fall back to bundled pattern files")
	local.StringArrayVar(&a.opts.ignore, "ignore", nil, "Extra ignore pattern (repeatable)")
	local.StringArrayVar(&a.opts.include, "include", nil, "Extra include pattern (repeatable)")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// setup loads the configuration, lets explicitly set flags override it and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.applyFlags(cmd, cfg)
	a.cfg = cfg

	logger, err := logging.Setup(cfg.Debug, "gptloader", version.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("debug") {
		cfg.Debug = a.opts.debug
	}
	if changed("preamble") {
		cfg.Preamble = a.opts.preamble
	}
	if changed("output") {
		cfg.Output = a.opts.output
	}
	if changed("clone") {
		cfg.Clone = a.opts.clone
	}
	if changed("clone-dir") {
		cfg.CloneDir = a.opts.cloneDir
	}
	if changed("git-backend") {
		cfg.Git.Backend = a.opts.gitBackend
	}
	if changed("no-fallback") {
		cfg.Patterns.Fallback = !a.opts.noFallback
	}
	cfg.Patterns.Ignore = append(cfg.Patterns.Ignore, a.opts.ignore...)
	cfg.Patterns.Include = append(cfg.Patterns.Include, a.opts.include...)
}

// arguments translates the merged configuration for combine.RunCombine.
func (a *app) arguments(repository string) *combine.Arguments {
	return &combine.Arguments{
		Repository:   repository,
		Clone:        a.cfg.Clone,
		CloneDir:     a.cfg.CloneDir,
		GitBackend:   a.cfg.Git.Backend,
		PreambleFile: a.cfg.Preamble,
		Output:       a.cfg.Output,
		Patterns:     a.cfg.LoaderOptions(),
	}
}

func (a *app) run(ctx context.Context, out io.Writer, repository string) error {
	outputPath, err := combine.RunCombine(ctx, a.arguments(repository), nil, a.logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Repository contents written to %s.\n", outputPath)
	return nil
}

// Execute runs the root command and returns the first error. A missing
// repository argument prints the usage text.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
