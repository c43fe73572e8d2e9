package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"deb2pac/internal/resolve"
)

// NewUpdateCmd creates the update command
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Refresh the pkgfile database used for file lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pf := resolve.NewPkgfile(0)
			if pf == nil {
				return fmt.Errorf("pkgfile is not installed")
			}
			return pf.Update(cmd.Context())
		},
	}
}
