package cli

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/circuitdex/internal/version"
)

// NewVersionCmd creates the 'version' command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("Version:  %s\n", version.Version)
			cmd.Printf("Commit:   %s\n", version.Commit)
			cmd.Printf("Built:    %s\n", version.Date)
		},
	}
}
