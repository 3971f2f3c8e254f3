package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/loom/internal/utils"
)

// flag names shared by the generate, clean and config commands
const (
	flagConfig     = "config"
	flagVerbosity  = "verbosity"
	flagVerbose    = "verbose"
	flagQuiet      = "quiet"
	flagNoColor    = "no-color"
	flagDryRun     = "dry-run"
	flagNoPrune    = "no-prune"
	flagFormat     = "format"
	defaultFormat  = "yaml"
	commandVersion = "dev"
)

// NewRootCommand creates the loom command tree. Without a subcommand loom
// behaves like loom generate.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "loom [directories...]",
		Short: "Generate controller creators from loom:: markers",
		Long: `Loom scans Go packages for //loom:: markers and generates one creator
per controller plus the shell and route tables of the application.

Examples:
  loom ./...                    # generate for the whole module
  loom generate ./internal/...  # generate below internal
  loom clean ./...              # remove every generated file
  loom config --format toml     # print the effective configuration`,
		Version:       commandVersion,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, out, errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().String(flagConfig, "", "config file (default: ./loom.yaml or ./loom.toml)")
	root.PersistentFlags().String(flagVerbosity, "info", "silent, error, warn, info, verbose or debug")
	root.PersistentFlags().Bool(flagVerbose, false, "shorthand for --verbosity=verbose")
	root.PersistentFlags().BoolP(flagQuiet, "q", false, "only report errors")
	root.PersistentFlags().Bool(flagNoColor, false, "disable colored output")
	addGenerateFlags(root)

	root.AddCommand(newGenerateCommand(out, errOut))
	root.AddCommand(newCleanCommand(out, errOut))
	root.AddCommand(newConfigCommand(out, errOut))
	return root
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagDryRun, false, "report files without writing them")
	cmd.Flags().Bool(flagNoPrune, false, "keep generated files no controller produces anymore")
}

func newGenerateCommand(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate creators and application tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, out, errOut)
		},
	}
	addGenerateFlags(cmd)
	return cmd
}

func newCleanCommand(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Remove generated files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diagnostics, err := loadCommandConfig(cmd, args, out, errOut)
			if err != nil {
				return err
			}

			diagnostics.Header("clean")
			removed, err := NewCleaner(diagnostics).CleanGeneratedFiles(cfg.Directories)
			if err != nil {
				diagnostics.ReportError(err)
				return reported(err)
			}
			diagnostics.Summary("Clean complete", map[string]int{"Files removed": len(removed)})
			return nil
		},
	}
}

func newConfigCommand(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadCommandConfig(cmd, nil, out, errOut)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString(flagFormat)
			data, err := MarshalConfig(cfg, format)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().String(flagFormat, defaultFormat, "output format: yaml or toml")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, out, errOut io.Writer) error {
	cfg, diagnostics, err := loadCommandConfig(cmd, args, out, errOut)
	if err != nil {
		return err
	}

	diagnostics.Header("generate")
	generator, err := NewGenerator(cfg, diagnostics)
	if err != nil {
		diagnostics.ReportError(err)
		return reported(err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	summary, err := generator.Run(ctx)
	if err != nil {
		diagnostics.ReportError(err)
		return reported(err)
	}

	diagnostics.Summary("Generation complete", map[string]int{
		"Packages processed": summary.PackagesProcessed,
		"Shells":             summary.Shells,
		"Controllers":        summary.Controllers,
		"Composites":         summary.Composites,
		"Files written":      len(summary.Written),
		"Files unchanged":    len(summary.Unchanged),
		"Files removed":      len(summary.Removed),
	})
	diagnostics.Verbose("run %s took %s", summary.RunID, summary.Duration)
	return nil
}

// loadCommandConfig loads the configuration for cmd and builds the
// diagnostics it asks for
func loadCommandConfig(cmd *cobra.Command, args []string, out, errOut io.Writer) (*Config, *utils.DiagnosticSystem, error) {
	configFile, _ := cmd.Flags().GetString(flagConfig)

	flagKeys := map[string]string{"verbosity": flagVerbosity}
	if cmd.Flags().Lookup(flagDryRun) != nil {
		flagKeys["dry_run"] = flagDryRun
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	cfg, _, err := LoadConfig(LoadOptions{
		ConfigFile:  configFile,
		SearchDir:   cwd,
		Command:     cmd,
		FlagKeys:    flagKeys,
		Directories: args,
	})
	if err != nil {
		utils.NewDiagnosticSystemWithWriters(utils.DiagnosticError, out, errOut).ReportError(err)
		return nil, nil, reported(err)
	}

	applyShorthandFlags(cmd, cfg)

	level, err := utils.ParseDiagnosticLevel(cfg.Verbosity)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid verbosity: %w", err)
	}
	diagnostics := utils.NewDiagnosticSystemWithWriters(level, out, errOut)
	if !cfg.Color {
		diagnostics.SetColors(false)
	}
	return cfg, diagnostics, nil
}

// applyShorthandFlags lets --verbose, --quiet, --no-color and --no-prune win
// over the loaded configuration
func applyShorthandFlags(cmd *cobra.Command, cfg *Config) {
	if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose {
		cfg.Verbosity = "verbose"
	}
	if quiet, _ := cmd.Flags().GetBool(flagQuiet); quiet {
		cfg.Verbosity = "error"
	}
	if noColor, _ := cmd.Flags().GetBool(flagNoColor); noColor {
		cfg.Color = false
	}
	if noPrune, _ := cmd.Flags().GetBool(flagNoPrune); noPrune {
		cfg.PruneStale = false
	}
}
