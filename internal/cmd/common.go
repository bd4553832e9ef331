package cmd

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/NDLANO/editorcore/internal/config"
	"github.com/NDLANO/editorcore/internal/idgen"
	"github.com/NDLANO/editorcore/internal/log"
	"github.com/NDLANO/editorcore/pkg/document"
	"github.com/NDLANO/editorcore/pkg/document/dnd"
	"github.com/NDLANO/editorcore/pkg/document/editor"
	"github.com/NDLANO/editorcore/pkg/document/plugins"
)

var newSourceClient = func() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil
	return client
}

// readSource reads a file, stdin for "-", or an https URL.
func readSource(cmd *cobra.Command, fileName string) ([]byte, error) {
	switch {
	case fileName == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "failed to read from stdin")

	case strings.HasPrefix(fileName, "https://"):
		resp, err := newSourceClient().Get(fileName)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get a file %q", fileName)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, errors.Errorf("failed to get a file %q: %s", fileName, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		return data, errors.Wrap(err, "failed to read body")

	default:
		data, err := os.ReadFile(fileName)
		return data, errors.Wrapf(err, "failed to read file %q", fileName)
	}
}

func dndOptions(c config.DnD) dnd.Options {
	opts := dnd.Options{}
	for _, t := range c.DisabledElements {
		opts.DisabledElements = append(opts.DisabledElements, document.Type(t))
	}
	if c.LegalChildren != nil {
		opts.LegalChildren = make(map[document.Type][]document.Type, len(c.LegalChildren))
		for parent, children := range c.LegalChildren {
			types := make([]document.Type, 0, len(children))
			for _, child := range children {
				types = append(types, document.Type(child))
			}
			opts.LegalChildren[document.Type(parent)] = types
		}
	}
	return opts
}

func newEditor(c *config.Config) (*editor.Editor, error) {
	gen, err := idgen.ForStrategy(idgen.Strategy(c.Editor.IDStrategy))
	if err != nil {
		return nil, err
	}

	opts := []editor.Option{
		editor.WithLogger(log.Get()),
		editor.WithGenerator(gen),
		editor.WithMaxIterations(c.Editor.MaxIterations),
	}
	if c.Editor.Draggable {
		opts = append(opts, editor.WithDraggable(dndOptions(c.DnD).Draggable))
	}

	return editor.New(plugins.Default(plugins.Options{
		SingleLine: c.Editor.SingleLine,
		RootNode:   document.Type(c.Editor.RootNode),
	}), opts...)
}

// loadEditor reads the source named by args[0] into a new editor.
func loadEditor(cmd *cobra.Command, args []string) (*editor.Editor, error) {
	data, err := readSource(cmd, args[0])
	if err != nil {
		return nil, err
	}
	ed, err := newEditor(cfg)
	if err != nil {
		return nil, err
	}
	if err := ed.LoadHTML(string(data)); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize source")
	}
	return ed, nil
}
