package cmd

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func treeCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "tree FILE|-",
		Short: "Print the normalized document tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := loadEditor(cmd, args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return errors.Wrap(enc.Encode(ed.Tree().Root), "failed to encode tree")
		},
	}
	return &cmd
}
