package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NDLANO/editorcore/internal/embedmeta"
	"github.com/NDLANO/editorcore/internal/log"
)

func previewCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "preview FILE|-",
		Short: "Render the editor view of an article, with ids and drag handles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := loadEditor(cmd, args)
			if err != nil {
				return err
			}

			if cfg.Embeds.Check {
				logger := log.Get()
				results, _ := embedmeta.New(cfg.Embeds.Options, logger).Check(cmd.Context(), ed.Tree())
				for _, r := range results {
					if r.Err != nil {
						logger.Warn("embed check failed",
							zap.Stringer("path", r.Path),
							zap.String("resource", string(r.Resource)),
							zap.Error(r.Err),
						)
					}
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), ed.Render())
			return errors.Wrap(err, "failed to write result")
		},
	}
	return &cmd
}
