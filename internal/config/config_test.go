package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	// Parsing nothing but the version yields the defaults.
	got, err := ParseYAML([]byte("version: v1\n"))
	require.NoError(t, err)
	opts := cmpopts.EquateEmpty()
	require.True(
		t,
		cmp.Equal(Default(), got, opts),
		"%s",
		cmp.Diff(Default(), got, opts),
	)
}

func TestParseYAML(t *testing.T) {
	testCases := []struct {
		name           string
		rawConfig      string
		check          func(t *testing.T, cfg *Config)
		errorSubstring string
	}{
		{
			name: "full config",
			rawConfig: `version: v1
editor:
  singleLine: true
  rootNode: heading
  maxIterations: 7
  idStrategy: ulid
  draggable: false
dnd:
  disabledElements: [table]
  legalChildren:
    section: [paragraph, heading]
    table-cell: []
embeds:
  check: true
  timeout: 2s
  retries: 1
  concurrency: 8
  oembedEndpoint: https://oembed.example/embed
log:
  enabled: true
  path: /tmp/editorcore.log
  verbose: true
`,
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, Editor{
					SingleLine:    true,
					RootNode:      "heading",
					MaxIterations: 7,
					IDStrategy:    "ulid",
				}, cfg.Editor)
				require.Equal(t, []string{"table"}, cfg.DnD.DisabledElements)
				require.Equal(t, []string{"paragraph", "heading"}, cfg.DnD.LegalChildren["section"])
				children, ok := cfg.DnD.LegalChildren["table-cell"]
				require.True(t, ok)
				require.Empty(t, children)
				require.True(t, cfg.Embeds.Check)
				require.Equal(t, 2*time.Second, cfg.Embeds.Timeout)
				require.Equal(t, 1, cfg.Embeds.Retries)
				require.Equal(t, 8, cfg.Embeds.Concurrency)
				require.Equal(t, "https://oembed.example/embed", cfg.Embeds.OEmbedEndpoint)
				require.Equal(t, LogConfig{Enabled: true, Path: "/tmp/editorcore.log", Verbose: true}, cfg.Log)
			},
		},
		{
			name:           "unknown version",
			rawConfig:      "version: v0\n",
			errorSubstring: `unknown version: "v0"`,
		},
		{
			name:           "unknown field",
			rawConfig:      "version: v1\neditor:\n  colour: red\n",
			errorSubstring: "failed to parse v1 config",
		},
		{
			name:           "invalid id strategy",
			rawConfig:      "version: v1\neditor:\n  idStrategy: uuid\n",
			errorSubstring: "failed to validate config",
		},
		{
			name:           "invalid endpoint",
			rawConfig:      "version: v1\nembeds:\n  oembedEndpoint: not a url\n",
			errorSubstring: "OEmbedEndpoint",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ParseYAML([]byte(tc.rawConfig))
			if tc.errorSubstring != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.errorSubstring)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestParseChain(t *testing.T) {
	cfg, err := ParseChain([][]byte{
		[]byte("version: v1\nembeds:\n  retries: 5\n  concurrency: 2\n"),
		[]byte("version: v1\nembeds:\n  retries: 0\n"),
	})
	require.NoError(t, err)
	require.Equal(t, 0, cfg.Embeds.Retries)
	require.Equal(t, 2, cfg.Embeds.Concurrency)
}
