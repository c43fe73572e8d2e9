package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deb2pac",
		Short: "Convert Debian and RPM packages to pacman packages",
		Long: `Deb2pac converts foreign binary packages into packages that pacman
can install natively.

Supported source formats:
  - Debian (.deb packages)
  - RPM (.rpm packages)

Conversion extracts the payload, translates metadata and dependency
names, rewrites legacy filesystem paths, and repacks everything as a
.pkg.tar.zst.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			quiet, _ := cmd.Flags().GetBool("quiet")
			switch {
			case verbose:
				logrus.SetLevel(logrus.DebugLevel)
			case quiet:
				logrus.SetLevel(logrus.WarnLevel)
			default:
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")

	// Add subcommands
	rootCmd.AddCommand(NewConvertCmd())
	rootCmd.AddCommand(NewUpdateCmd())

	return rootCmd
}
