// Package cmd provides the CLI commands for nps.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wexinc/nps/internal/config"
	npserrors "github.com/wexinc/nps/internal/errors"
	"github.com/wexinc/nps/internal/listing"
	"github.com/wexinc/nps/internal/logging"
	"github.com/wexinc/nps/internal/manifest"
	"github.com/wexinc/nps/internal/project"
	"github.com/wexinc/nps/internal/version"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// options holds the parsed flags of one invocation.
type options struct {
	dependencies bool
	filter       string
	format       string
	color        string
	configPath   string
	verbose      bool
}

// NewRootCmd creates the nps command.
// Cobra commands keep flag state between runs, so each invocation builds a fresh one.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	root := &cobra.Command{
		Use:   "nps [PATH]",
		Short: "List the scripts or dependencies of a Node project",
		Long: `nps prints the scripts declared in a project's package.json, or with
--dependencies, its dependencies and devDependencies together with the
description of each installed package.

Scripts are written to stdout. Dependencies are written to stderr with
color forced on, so they stay visible when stdout is piped.

Examples:
  nps                      # Scripts of the project in the current directory
  nps ./web                # Scripts of the project in ./web
  nps -d                   # Dependencies and devDependencies
  nps -d --filter eslint   # Only dependencies whose name matches
  nps --format json        # Scripts as a JSON document`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
	}

	info := version.NewInfo(Version, Commit, Date)
	root.Version = info.String()
	root.Annotations = map[string]string{"full_version": info.FullString()}
	// --version --verbose prints the full build report.
	root.SetVersionTemplate(`{{if eq (.Flags.Lookup "verbose").Value.String "true"}}` +
		`{{index .Annotations "full_version"}}{{else}}nps {{.Version}}{{end}}
`)

	flags := root.Flags()
	flags.BoolVarP(&opts.dependencies, "dependencies", "d", false, "List dependencies instead of scripts")
	flags.StringVarP(&opts.filter, "filter", "f", "", "Only list names matching this regular expression")
	flags.StringVar(&opts.format, "format", "", "Output format: text, json or yaml")
	flags.StringVar(&opts.color, "color", "", "Colorize output: auto, always or never")
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/nps/config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug diagnostics")

	return root, opts
}

// runRoot resolves the project and runs the selected listing.
func runRoot(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg, opts.verbose)
	if err != nil {
		return err
	}

	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}

	fsys := afero.NewOsFs()
	detector := project.NewDetector(fsys)
	detector.ModulesDir = cfg.ModulesDir
	proj, err := detector.Detect(dir)
	if err != nil {
		return err
	}
	logger.Debug("resolved project",
		"name", proj.Name,
		"path", proj.Path,
		"manifest", proj.ManifestPath,
		"markers", strings.Join(proj.Markers, ","),
		"package_manager", proj.PackageManager,
		"has_manifest", proj.HasManifest,
		"has_modules", proj.HasModules)

	lister := listing.New(manifest.NewLoader(fsys),
		listing.WithLogger(logger),
		listing.WithModulesDir(cfg.ModulesDir),
		listing.WithWorkers(cfg.Workers),
	)

	req := listing.Request{
		Dir:    proj.Path,
		Filter: opts.filter,
		Format: cfg.Format,
		Color:  cfg.Color,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}

	if opts.dependencies {
		if proj.HasManifest && !proj.HasModules {
			logger.Info("no installed dependencies found", "dir", cfg.ModulesDir)
		}
		return lister.Dependencies(req)
	}
	return lister.Scripts(req)
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = config.Format(strings.ToLower(opts.format))
	}
	if flags.Changed("color") {
		cfg.Color = config.ColorMode(strings.ToLower(opts.color))
	}
	return cfg.Check()
}

// newLogger builds the diagnostics logger and installs it globally.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, npserrors.Wrap(err, npserrors.ErrConfig, "invalid configuration")
	}
	if verbose {
		level = logging.LevelDebug
	}
	return logging.InitGlobal(&logging.Config{
		Level:      level,
		Output:     w,
		Prefix:     "nps",
		JSONFormat: cfg.Log.JSON,
	}), nil
}

// Run executes nps with args and returns the process exit status.
// Failures are reported once on stderr as "error occurred: {cause}".
func Run(args []string, stdout, stderr io.Writer) int {
	root, opts := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error occurred: %v\n", err)
		var nerr *npserrors.Error
		if opts.verbose && errors.As(err, &nerr) {
			if report := nerr.Format(); report != "" {
				fmt.Fprintf(stderr, "\n%s", report)
			}
		}
		return 1
	}
	return 0
}

// Execute runs nps with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
