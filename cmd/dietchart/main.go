package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dietchart/internal/app"
	"dietchart/internal/config"
	"dietchart/internal/models"
	"dietchart/internal/render"
)

type globalFlags struct {
	source  string
	profile string
	preset  string
	trim    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "dietchart",
		Short:         "Small-multiples chart of dietary intake by age",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.source, "source", "", "CSV/XLSX file or URL (default from DATA_SOURCE)")
	pf.StringVar(&flags.profile, "profile", "", "YAML dataset profile")
	pf.StringVar(&flags.preset, "preset", "", "geometry preset (standard, tall)")
	pf.IntVar(&flags.trim, "trim", -1, "rows to drop from the end of the dataset (default from TRIM_COUNT)")

	rootCmd.AddCommand(
		newRenderCmd(flags),
		newSummaryCmd(flags),
		newLayoutCmd(flags),
	)
	return rootCmd
}

// loadConfig layers the command-line flags over config.Load.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadWith(flags.profile)
	if err != nil {
		return nil, err
	}
	if flags.source != "" {
		cfg.Source.Location = flags.source
	}
	if flags.preset != "" {
		cfg.Chart.Preset = flags.preset
	}
	if cmd.Flags().Changed("trim") {
		cfg.Dataset.TrimCount = flags.trim
	}
	return cfg, cfg.Validate()
}

func loadDashboard(cmd *cobra.Command, flags *globalFlags) (*models.Dashboard, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	return app.BuildDashboard(cmd.Context(), cfg)
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart to an SVG or PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDashboard(cmd, flags)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := render.Render(w, d.Layout, render.FormatFor(output)); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s: %s\n", output, render.Describe(d.Layout))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "chart.svg", "output file (.svg or .png, - for stdout)")
	return cmd
}

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print each nutrient's peak, earliest peak age first",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDashboard(cmd, flags)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), d.Ordering)
		},
	}
}

func writeSummary(w io.Writer, ordering []models.ColumnSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNUTRIENT\tPEAK AGE\tPEAK VALUE")
	for i, s := range ordering {
		switch {
		case !s.HasPeak:
			fmt.Fprintf(tw, "%d\t%s\t-\t-\n", i+1, s.DisplayName)
		case !s.PeakAgeValid:
			fmt.Fprintf(tw, "%d\t%s\t-\t%g\n", i+1, s.DisplayName, s.PeakValue)
		default:
			fmt.Fprintf(tw, "%d\t%s\t%g\t%g\n", i+1, s.DisplayName, s.PeakAge, s.PeakValue)
		}
	}
	return tw.Flush()
}

func newLayoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the derived layout as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDashboard(cmd, flags)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d.Layout)
		},
	}
}
