package config

import (
	"github.com/NDLANO/editorcore/internal/embedmeta"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: currentVersion,
		Editor: Editor{
			RootNode:      "paragraph",
			MaxIterations: 42,
			IDStrategy:    "random",
			Draggable:     true,
		},
		Embeds: Embeds{
			Options: embedmeta.DefaultOptions(),
		},
		Log: LogConfig{
			Path: "editorcore.log",
		},
	}
}
