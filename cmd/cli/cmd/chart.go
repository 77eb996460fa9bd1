package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/field-access-analysis/internal/chart"
	"github.com/field-access-analysis/internal/loader"
	"github.com/field-access-analysis/internal/typetree"
	apperrors "github.com/field-access-analysis/pkg/errors"
)

var (
	chartOutput string
	chartDump   bool
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart <capture>",
	Short: "Draw per-entry bar charts of leaf field access",
	Long: `Draw one bar chart per capture entry on a shared grid.

Each chart has one bar per leaf field of the entry's type tree, in layout
order, on a logarithmic access axis. The image format follows the output
extension: .svg for SVG, PNG otherwise. With --dump the flattened trees
are also printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "access.png", "Output key")
	chartCmd.Flags().BoolVar(&chartDump, "dump", false, "Print the flattened trees to stdout")
	chartCmd.Flags().Int("columns", 4, "Charts per row")
	chartCmd.Flags().Int("dpi", 96, "Image resolution for PNG output")
	chartCmd.Flags().Bool("labels", false, "Label each bar with \"name : type\"")
	chartCmd.Flags().Float64("width", 0, "Image width in cm, 0 to size by grid")
	chartCmd.Flags().Float64("height", 0, "Image height in cm, 0 to size by grid")
}

func runChart(cmd *cobra.Command, args []string) error {
	if chartOutput == "" || chartOutput == "-" {
		return apperrors.New(apperrors.CodeInvalidInput, "chart needs an output key")
	}

	opts := loader.DefaultOptions()
	opts.Policy = cfg.Hotness.Policy()
	opts.Logger = logger
	entries, err := loader.New(store, opts).Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var dump bytes.Buffer
	if chartDump {
		if err := chart.WriteDump(&dump, entries); err != nil {
			return err
		}
	}

	r := chart.New(&chart.Options{
		Columns:  cfg.Chart.Columns,
		WidthCM:  cfg.Chart.WidthCM,
		HeightCM: cfg.Chart.HeightCM,
		DPI:      cfg.Chart.DPI,
		Labels:   cfg.Chart.Labels,
		Format:   chart.FormatFor(chartOutput),
	})
	if err := publish[[]*typetree.Entry](cmd, r, entries, chartOutput); err != nil {
		return err
	}

	_, err = dump.WriteTo(cmd.OutOrStdout())
	return err
}
