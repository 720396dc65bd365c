package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON renders v as indented JSON on the command's stdout, used by the
// --json flags so output stays machine-parseable.
func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
