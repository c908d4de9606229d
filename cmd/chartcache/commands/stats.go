package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.trai.ch/chartcache/internal/ui/style"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show what the snapshot cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.app.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, style.Heading.Render("Snapshot cache"))
			_, _ = fmt.Fprintln(out, style.Row("entries", strconv.Itoa(stats.Count)))
			_, _ = fmt.Fprintln(out, style.Row("size", humanize.Bytes(uint64(max(stats.TotalBytes, 0)))))
			_, _ = fmt.Fprintln(out, style.Row("oldest", formatTime(stats.Oldest)))
			_, _ = fmt.Fprintln(out, style.Row("newest", formatTime(stats.Newest)))
			return nil
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format(time.DateTime), humanize.Time(t))
}
