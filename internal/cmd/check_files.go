package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/NDLANO/editorcore/internal/embedmeta"
	"github.com/NDLANO/editorcore/internal/log"
)

func checkFilesCmd() *cobra.Command {
	var strict bool

	cmd := cobra.Command{
		Use:   "check-files FILE|-",
		Short: "Check that file embeds are reachable and look up embed metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := loadEditor(cmd, args)
			if err != nil {
				return err
			}

			client := embedmeta.New(cfg.Embeds.Options, log.Get())
			results, checkErr := client.Check(cmd.Context(), ed.Tree())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range results {
				status := "ok"
				if r.Err != nil {
					status = r.Err.Error()
				} else if r.Metadata != nil && r.Metadata.Title != "" {
					status = "ok: " + r.Metadata.Title
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path, r.Resource, r.URL, status)
			}
			if err := w.Flush(); err != nil {
				return errors.Wrap(err, "failed to write result")
			}

			if strict && checkErr != nil {
				return errors.Wrap(checkErr, "embed check failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when a check fails.")

	return &cmd
}
