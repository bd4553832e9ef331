package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func fmtCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "fmt FILE|-",
		Short: "Normalize article HTML into its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := loadEditor(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ed.HTML())
			return errors.Wrap(err, "failed to write result")
		},
	}
	return &cmd
}
