package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"deb2pac/internal/config"
	"deb2pac/internal/convert"
	"deb2pac/internal/detect"
	"deb2pac/internal/models"
	"deb2pac/internal/pacman"
	"deb2pac/internal/resolve"
)

// NewConvertCmd creates the convert command
func NewConvertCmd() *cobra.Command {
	var opts models.ConvertOptions
	var noScripts bool
	var configPath string
	var mappingsPath string
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "convert <package|url|directory>...",
		Short: "Convert packages to pacman format",
		Long: `Converts each argument, which may be a package file, a download URL,
or a directory that is scanned for package files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadOptions(cmd, &opts, configPath, timeoutSeconds, noScripts); err != nil {
				return err
			}

			logrus.Debugf("Options: %+v", opts)

			return runConversion(cmd.Context(), &opts, mappingsPath, args)
		},
	}

	// Input/Output flags
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", ".", "Directory for converted packages")

	// Behavior flags
	cmd.Flags().BoolVar(&noScripts, "no-scripts", false, "Do not translate maintainer scripts")
	cmd.Flags().BoolVar(&opts.KeepWorkDir, "keep-workdir", false, "Keep the work directory for inspection")
	cmd.Flags().BoolVar(&opts.UsePkgfile, "use-pkgfile", false, "Look up unresolved dependencies with pkgfile")
	cmd.Flags().BoolVar(&opts.Install, "install", false, "Install the converted packages with pacman -U")
	cmd.Flags().IntVar(&timeoutSeconds, "tool-timeout", 0, "Per-invocation timeout for external tools in seconds")

	// Configuration flags
	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file (defaults to the XDG location)")
	cmd.Flags().StringVar(&mappingsPath, "mappings", "", "Mappings file (defaults to the XDG location)")

	return cmd
}

// loadOptions fills in everything the user left to the config file.
// Flags the user set explicitly always win.
func loadOptions(cmd *cobra.Command, opts *models.ConvertOptions, configPath string, timeoutSeconds int, noScripts bool) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("output-dir") {
		opts.OutputDir = cfg.OutputDir
	}
	if !cmd.Flags().Changed("keep-workdir") {
		opts.KeepWorkDir = cfg.KeepWorkDir
	}
	if !cmd.Flags().Changed("use-pkgfile") {
		opts.UsePkgfile = cfg.UsePkgfile
	}

	opts.IncludeScripts = cfg.IncludeScripts
	if noScripts {
		opts.IncludeScripts = false
	}

	seconds := cfg.ToolTimeoutSeconds
	if cmd.Flags().Changed("tool-timeout") {
		seconds = timeoutSeconds
	}
	if seconds > 0 {
		opts.ToolTimeout = time.Duration(seconds) * time.Second
	}

	switch {
	case cmd.Flags().Changed("verbose") || cmd.Flags().Changed("quiet"):
		// The flag already set the level.
	case cfg.Verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case cfg.Quiet:
		logrus.SetLevel(logrus.WarnLevel)
	}

	if opts.OutputDir == "" {
		return fmt.Errorf("output-dir is required")
	}

	return nil
}

func runConversion(ctx context.Context, opts *models.ConvertOptions, mappingsPath string, args []string) error {
	var mappings map[string][]string
	var err error
	if mappingsPath != "" {
		mappings, err = config.LoadMappingsFrom(mappingsPath)
	} else {
		mappings, err = config.LoadMappings()
	}
	if err != nil {
		return err
	}
	if len(mappings) > 0 {
		logrus.Debugf("Loaded %d user mappings", len(mappings))
	}

	var lookup resolve.FileLookup
	if opts.UsePkgfile {
		if pf := resolve.NewPkgfile(opts.ToolTimeout); pf != nil {
			lookup = pf
		} else {
			logrus.Warn("pkgfile is not installed; file lookups disabled")
		}
	}
	resolver := resolve.NewResolver(resolve.NewTable(mappings), lookup)

	packer, err := pacman.NewBsdtarPacker(opts.ToolTimeout)
	if err != nil {
		return err
	}

	targets, err := expandTargets(ctx, args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logrus.Warn("No packages found")
		return nil
	}
	logrus.Infof("Found %d packages", len(targets))

	conv := convert.New(*opts, resolver, packer)

	var outputs []string
	failed := 0
	for _, target := range targets {
		result, err := conv.Convert(ctx, target)
		if err != nil {
			failed++
			logrus.Errorf("Failed to convert %s: %v", target, err)
			if ctx.Err() != nil {
				return err
			}
			continue
		}

		outputs = append(outputs, result.OutputPath)
		if len(result.Unresolved) > 0 {
			logrus.Warnf("%s: %d dependencies left unresolved, add mappings under %s",
				result.Package, len(result.Unresolved), config.Dir())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(targets))
	}

	logrus.Info("Conversion completed successfully!")

	if opts.Install && len(outputs) > 0 {
		return installPackages(ctx, outputs)
	}

	return nil
}

// expandTargets turns the command arguments into a flat list of
// package files and URLs. Directories are scanned recursively.
func expandTargets(ctx context.Context, args []string) ([]string, error) {
	var targets []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			targets = append(targets, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			targets = append(targets, arg)
			continue
		}

		found, err := detect.Scan(ctx, arg)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			targets = append(targets, f.Path)
		}
	}
	return targets, nil
}

func installPackages(ctx context.Context, outputs []string) error {
	args := append([]string{"-U"}, outputs...)
	logrus.Infof("Installing with pacman %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "pacman", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &models.ExternalToolError{Tool: "pacman", ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &models.ExternalToolError{Tool: "pacman", ExitCode: -1, Err: err}
	}
	return nil
}
