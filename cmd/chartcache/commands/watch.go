package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Invalidate snapshots whenever subject data files change",
		Long: "Watch a directory of subject data files (<subject>.json, .yaml or .yml)\n" +
			"and invalidate the snapshots of every subject whose file changes.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.app.Watch(cmd.Context(), dir)
		},
	}
}
