package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/chartcache/internal/app"
	"go.trai.ch/chartcache/internal/core/domain"
	"go.trai.ch/chartcache/internal/engine/display"
	"go.trai.ch/chartcache/internal/ui/style"
)

const defaultViewport = 1280

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <scene.svg>",
		Short: "Present a chart from the snapshot cache, rasterizing it on a miss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			dataPath, _ := flags.GetString("data")
			subject, _ := flags.GetString("subject")
			variant, _ := flags.GetString("variant")
			width, _ := flags.GetInt("width")
			height, _ := flags.GetInt("height")
			dark, _ := flags.GetBool("dark")
			highContrast, _ := flags.GetBool("high-contrast")
			reduceMotion, _ := flags.GetBool("reduce-motion")
			coarse, _ := flags.GetBool("coarse-pointer")
			viewport, _ := flags.GetInt("viewport")
			output, _ := flags.GetString("output")

			req := app.RenderRequest{
				ScenePath: args[0],
				DataPath:  dataPath,
				SubjectID: subject,
				Variant:   variant,
				Width:     width,
				Height:    height,
				Theme: domain.ThemeFlags{
					DarkMode:     dark,
					HighContrast: highContrast,
					ReduceMotion: reduceMotion,
				},
				Device:     display.ClassifyDevice(coarse, viewport),
				OutputPath: output,
			}

			res, err := c.app.Render(cmd.Context(), req)
			if res.Key.SubjectID != "" {
				printRender(cmd.OutOrStdout(), req, res)
				if summary, serr := c.app.Activity(cmd.Context()); serr == nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.Row("lookups",
						fmt.Sprintf("%d hit, %d miss", summary.Hits, summary.Misses)))
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.Row("rasterized",
						fmt.Sprintf("%d (%d failed)", summary.Rasterizations, summary.Failures)))
				}
			}
			return err
		},
	}

	cmd.Flags().StringP("data", "d", "", "Subject data file (JSON or YAML) the chart was drawn from")
	cmd.Flags().StringP("subject", "s", "", "Subject id (defaults to the data file name)")
	cmd.Flags().String("variant", "", "Variant tag of the chart")
	cmd.Flags().IntP("width", "W", 0, "Chart width in CSS pixels")
	cmd.Flags().IntP("height", "H", 0, "Chart height in CSS pixels")
	cmd.Flags().Bool("dark", false, "Render for dark mode")
	cmd.Flags().Bool("high-contrast", false, "Render for high contrast")
	cmd.Flags().Bool("reduce-motion", false, "Render for reduced motion")
	cmd.Flags().Bool("coarse-pointer", false, "Present as on a touch device")
	cmd.Flags().Int("viewport", defaultViewport, "Viewport width used to classify the device")
	cmd.Flags().StringP("output", "o", "", "Write the PNG snapshot to this file")

	return cmd
}

func printRender(w io.Writer, req app.RenderRequest, res app.RenderResult) {
	source := "rasterized"
	switch {
	case res.FromCache:
		source = "cache"
	case res.DataURL == "":
		source = "none"
	}

	_, _ = fmt.Fprintln(w, style.Heading.Render(res.Key.SubjectID))
	_, _ = fmt.Fprintln(w, style.Row("key", res.Key.ID()))
	_, _ = fmt.Fprintln(w, style.Row("device", req.Device.String()))
	_, _ = fmt.Fprintln(w, style.Row("snapshot", source))
	_, _ = fmt.Fprintln(w, style.Row("presentation", res.Presentation.String()))
	if res.DataURL != "" {
		_, _ = fmt.Fprintln(w, style.Row("size", strconv.Itoa(len(res.DataURL))+" bytes"))
	}
}
