package cmd

import (
	"github.com/spf13/cobra"

	"github.com/field-access-analysis/internal/pprofexport"
	"github.com/field-access-analysis/internal/typetree"
	"github.com/field-access-analysis/pkg/compression"
)

var pprofOutput string

// pprofCmd represents the pprof command
var pprofCmd = &cobra.Command{
	Use:   "pprof <capture>",
	Short: "Export field access as a pprof profile",
	Long: `Export the selected entries as a pprof profile with one sample per
leaf field. A sample's stack runs from the field up through its enclosing
types and on through the allocation callstack. Samples carry two values,
access count and bytes, and are labeled with type, hotness and
multiplicity.

  go tool pprof -sample_index=access -tagfocus=hotness=9 profile.pb.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runPprof,
}

func init() {
	rootCmd.AddCommand(pprofCmd)

	pprofCmd.Flags().StringVarP(&pprofOutput, "output", "o", "profile.pb.gz", "Output key, - for stdout")
	addSelectionFlags(pprofCmd)
}

func runPprof(cmd *cobra.Command, args []string) error {
	result, err := newAnalyzer().Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	// A compressing output key already gzips the stream.
	w := &pprofexport.Writer{Raw: pprofOutput != "-" && compression.FromExtension(pprofOutput) != compression.TypeNone}
	return publish[[]*typetree.Entry](cmd, w, result.Selected, pprofOutput)
}
