package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/chartcache/internal/ui/style"
)

func (c *CLI) newInvalidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <subject>...",
		Short: "Remove every snapshot of the given subjects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Invalidate(cmd.Context(), args...)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.Success.Render(
				fmt.Sprintf("%s invalidated %d snapshots", style.Check, n)))
			return nil
		},
	}
}
