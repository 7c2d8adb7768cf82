// File: cmd/version.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gptloader/pkg/version"
)

// newVersionCmd prints the build information; --short prints the version only.
func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of gptloader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return versionCmd
}
