package cmd

import (
	"github.com/spf13/cobra"

	"github.com/field-access-analysis/pkg/writer"
)

// publish encodes data and, once encoding has fully succeeded, stores it
// under key or writes it to stdout.
func publish[T any](cmd *cobra.Command, enc writer.Encoder[T], data T, key string) error {
	res, err := writer.Encode(cmd.Context(), enc, data, store, key, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if res.Key != writer.StdoutKey {
		logger.Info("Wrote %s (%d bytes, compression: %s)", store.URL(res.Key), res.CompressedSize, res.Compression)
	}
	return nil
}
