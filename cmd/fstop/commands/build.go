package commands

import (
	"github.com/spf13/cobra"
	"go.fstop.ch/fstop/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			drafts, _ := cmd.Flags().GetBool("drafts")

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Force:  force,
				Drafts: drafts,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Regenerate all image variants, ignoring the cache")
	cmd.Flags().BoolP("drafts", "d", false, "Include articles marked as drafts")
	return cmd
}
