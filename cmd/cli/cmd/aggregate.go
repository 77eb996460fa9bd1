package cmd

import (
	"path"

	"github.com/spf13/cobra"

	"github.com/field-access-analysis/internal/aggregate"
	"github.com/field-access-analysis/pkg/writer"
)

var aggregateOutput string

// aggregateCmd represents the aggregate command
var aggregateCmd = &cobra.Command{
	Use:   "aggregate <dir>",
	Short: "Sum field access per type across a run's profile dumps",
	Long: `Read every ` + aggregate.ProfilePattern + ` under dir, sum FieldAccessCount per
TypeName through every level of nesting, and print the totals in
ascending order. The merged profiles are written to
dir/` + aggregate.DefaultOutput + ` unless --output says otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVarP(&aggregateOutput, "output", "o", "", "Output key for the merged profiles")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	dir := args[0]
	report, err := aggregate.New(store, logger).Run(cmd.Context(), dir)
	if err != nil {
		return err
	}

	out := aggregateOutput
	if out == "" {
		out = path.Join(dir, aggregate.DefaultOutput)
	}
	if err := publish[[]*aggregate.Profile](cmd, writer.NewYAMLWriter[[]*aggregate.Profile](), report.Profiles, out); err != nil {
		return err
	}
	if out == writer.StdoutKey {
		return nil
	}
	return report.WriteText(cmd.OutOrStdout())
}
