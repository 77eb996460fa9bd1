package cmd

import (
	"github.com/spf13/cobra"

	"github.com/field-access-analysis/internal/loader"
	"github.com/field-access-analysis/internal/unresolved"
	"github.com/field-access-analysis/pkg/writer"
)

var unresolvedOutput string

// unresolvedCmd represents the unresolved command
var unresolvedCmd = &cobra.Command{
	Use:   "unresolved <dump>",
	Short: "Deduplicate unresolved allocation callstacks",
	Long: `Read a dump of callstacks the profiler could not attribute to a type
("- entry: [frames]") and write each distinct callstack once, keeping the
first occurrence and the original order.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnresolved,
}

func init() {
	rootCmd.AddCommand(unresolvedCmd)

	unresolvedCmd.Flags().StringVarP(&unresolvedOutput, "output", "o", unresolved.DefaultOutput, "Output key, - for stdout")
}

func runUnresolved(cmd *cobra.Command, args []string) error {
	opts := loader.DefaultOptions()
	opts.Logger = logger

	records, err := unresolved.NewDeduper(loader.New(store, opts), logger).Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return publish[[]unresolved.Record](cmd, writer.NewYAMLWriter[[]unresolved.Record](), records, unresolvedOutput)
}
