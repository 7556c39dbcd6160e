package commands

import (
	"github.com/spf13/cobra"
	"go.fstop.ch/fstop/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the output directory and optionally the image cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, _ := cmd.Flags().GetBool("cache")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{
				Output: false,
				Cache:  false,
			}

			switch {
			case all:
				opts.Output = true
				opts.Cache = true
			case cache:
				opts.Cache = true
			default:
				// Default behavior: clean the output directory
				opts.Output = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("cache", "c", false, "Remove the image variant cache")
	cmd.Flags().BoolP("all", "a", false, "Remove the output directory and the image cache")

	return cmd
}
