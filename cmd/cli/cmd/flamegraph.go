package cmd

import (
	"github.com/spf13/cobra"

	"github.com/field-access-analysis/internal/analyzer"
	"github.com/field-access-analysis/internal/flamegraph"
	"github.com/field-access-analysis/internal/selection"
	"github.com/field-access-analysis/internal/typetree"
)

var (
	flamegraphOutput string
	flamegraphFormat string
)

// flamegraphCmd represents the flamegraph command
var flamegraphCmd = &cobra.Command{
	Use:   "flamegraph <capture>",
	Short: "Emit folded flame graph stacks weighted by field size",
	Long: `Emit one folded stack line per type tree node.

Every frame is labeled "(count, share, size) name:type_[hN]" where N is
the hotness tier of the node. Tiers are log-spaced over the root access
counts of the whole capture; nodes with a negative recorded size get a
tier of their own. Leaves weigh their size in bytes, so flamegraph.pl
draws memory layout and colors it by heat.

Entries are sorted by root access, hottest first. --max keeps the first
N; together with --max, --min drops the first M.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlamegraph,
}

func init() {
	rootCmd.AddCommand(flamegraphCmd)

	flamegraphCmd.Flags().StringVarP(&flamegraphOutput, "output", "o", "-", "Output key, - for stdout")
	flamegraphCmd.Flags().StringVarP(&flamegraphFormat, "format", "f", flamegraph.FormatFolded, "Output format: folded or json")
	addSelectionFlags(flamegraphCmd)
}

// addSelectionFlags registers the flags that pick entries and tune
// hotness bucketing.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().Int("min", 0, "Skip the first N entries (requires --max)")
	cmd.Flags().Int("max", selection.All, "Keep the first N entries, -1 for all")
	cmd.Flags().Int("buckets", typetree.DefaultBuckets, "Number of hotness thresholds")
}

// newAnalyzer builds the pipeline from the loaded configuration.
func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(store, &analyzer.Options{
		Policy: cfg.Hotness.Policy(),
		Range:  selection.Range{Min: cfg.Flamegraph.Min, Max: cfg.Flamegraph.Max},
		Logger: logger,
	})
}

func runFlamegraph(cmd *cobra.Command, args []string) error {
	rw, err := flamegraph.NewResultWriter(flamegraphFormat)
	if err != nil {
		return err
	}

	result, err := newAnalyzer().Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return publish[*analyzer.Result](cmd, rw, result, flamegraphOutput)
}
