package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/NDLANO/editorcore/internal/config"
	"github.com/NDLANO/editorcore/internal/log"
)

var (
	fChdir      string
	fConfigName string
	fSingleLine bool
	fVerbose    bool

	cfg *config.Config
)

func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "editorcore",
		Short:         "Normalize, inspect and preview NDLA article HTML",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVar(&fChdir, "chdir", ".", "Directory to read the configuration from.")
	pflags.StringVar(&fConfigName, "config", "editorcore.yaml", "Name of the configuration file.")
	pflags.BoolVar(&fSingleLine, "single-line", false, "Restrict the document to one block.")
	pflags.BoolVarP(&fVerbose, "verbose", "v", false, "Log debug output to stderr.")

	cmd.AddCommand(fmtCmd())
	cmd.AddCommand(treeCmd())
	cmd.AddCommand(previewCmd())
	cmd.AddCommand(checkFilesCmd())

	return &cmd
}

func loadConfig(cmd *cobra.Command) error {
	info, err := os.Stat(fChdir)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", fChdir)
	}
	if !info.IsDir() {
		return errors.Errorf("%q is not a directory", fChdir)
	}

	loader := config.NewLoader(fConfigName, os.DirFS(fChdir), config.WithLogger(log.Get()))
	cfg, err = loader.Load(".")
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("single-line") {
		cfg.Editor.SingleLine = fSingleLine
	}

	switch {
	case fVerbose:
		return log.Set("", true)
	case cfg.Log.Enabled:
		return log.Set(cfg.Log.Path, cfg.Log.Verbose)
	}
	return nil
}
