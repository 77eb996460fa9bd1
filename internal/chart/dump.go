package chart

import (
	"fmt"
	"io"

	"github.com/field-access-analysis/internal/typetree"
)

const dumpSeparator = "--------------------------------------"

// WriteDump prints, for each entry, the root type followed by its
// flattened leaves and a separator line.
func WriteDump(w io.Writer, entries []*typetree.Entry) error {
	for _, e := range entries {
		if e.Tree.Root != nil {
			if _, err := fmt.Fprintln(w, e.Tree.Root.FullTypeName); err != nil {
				return err
			}
		}
		if err := typetree.Flatten(e.Tree.Root).Dump(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", dumpSeparator); err != nil {
			return err
		}
	}
	return nil
}
