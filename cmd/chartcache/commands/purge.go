package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/chartcache/internal/app"
	"go.trai.ch/chartcache/internal/ui/output"
	"go.trai.ch/chartcache/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove snapshots from the cache",
		Long: "Remove expired snapshots (--expired) or every snapshot (--all).\n" +
			"Asks for confirmation on a terminal unless --yes is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expired, _ := cmd.Flags().GetBool("expired")
			all, _ := cmd.Flags().GetBool("all")
			yes, _ := cmd.Flags().GetBool("yes")

			out := cmd.OutOrStdout()
			switch {
			case all:
				confirm := confirmation(cmd.InOrStdin(), out, yes, "Remove every cached snapshot?")
				if err := c.app.PurgeAll(cmd.Context(), confirm); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, style.Success.Render(style.Check+" removed all snapshots"))
			case expired:
				confirm := confirmation(cmd.InOrStdin(), out, yes, "Remove expired snapshots?")
				n, err := c.app.PurgeExpired(cmd.Context(), confirm)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, style.Success.Render(fmt.Sprintf("%s removed %d expired snapshots", style.Check, n)))
			default:
				return zerr.New("specify --expired or --all")
			}
			return nil
		},
	}

	cmd.Flags().Bool("expired", false, "Remove expired and stale-format snapshots")
	cmd.Flags().Bool("all", false, "Remove every snapshot")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	cmd.MarkFlagsMutuallyExclusive("expired", "all")

	return cmd
}

// confirmation asks the operator on an interactive terminal. Anything other than
// an explicit yes, and any non-interactive input, leaves the action unconfirmed.
func confirmation(in io.Reader, out io.Writer, yes bool, question string) app.Confirmation {
	if yes {
		return app.Confirmed
	}
	if !output.IsTerminal(in) {
		return app.Unconfirmed
	}

	_, _ = fmt.Fprintf(out, "%s %s [y/N] ", style.Warning, question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return app.Unconfirmed
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return app.Confirmed
	}
	return app.Unconfirmed
}
