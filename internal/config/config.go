// Package config reads the editorcore configuration: editor behavior,
// drag-and-drop rules, embed checks and logging.
package config

import (
	"bytes"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/NDLANO/editorcore/internal/embedmeta"
)

const currentVersion = "v1"

// Config is the merged configuration of one run.
type Config struct {
	Version string    `yaml:"version" validate:"required"`
	Editor  Editor    `yaml:"editor"`
	DnD     DnD       `yaml:"dnd"`
	Embeds  Embeds    `yaml:"embeds"`
	Log     LogConfig `yaml:"log"`
}

type Editor struct {
	SingleLine bool   `yaml:"singleLine"`
	RootNode   string `yaml:"rootNode"`
	// MaxIterations caps normalization passes per dirty path.
	MaxIterations int    `yaml:"maxIterations" validate:"gte=1,lte=1000"`
	IDStrategy    string `yaml:"idStrategy" validate:"oneof=random ulid"`
	Draggable     bool   `yaml:"draggable"`
}

type DnD struct {
	DisabledElements []string            `yaml:"disabledElements"`
	LegalChildren    map[string][]string `yaml:"legalChildren"`
}

type Embeds struct {
	Check             bool `yaml:"check"`
	embedmeta.Options `yaml:",inline"`
}

type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Verbose bool   `yaml:"verbose"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseYAML parses one configuration document on top of the defaults.
func ParseYAML(data []byte) (*Config, error) {
	return ParseChain([][]byte{data})
}

// ParseChain applies the documents in order on top of the defaults.
// Later documents override the fields they set.
func ParseChain(chain [][]byte) (*Config, error) {
	cfg := Default()
	for _, data := range chain {
		if err := apply(cfg, data); err != nil {
			return nil, err
		}
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to validate config")
	}
	return cfg, nil
}

type versionOnly struct {
	Version string `yaml:"version"`
}

func parseVersionFromYAML(data []byte) (string, error) {
	var result versionOnly
	if err := yaml.Unmarshal(data, &result); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal version")
	}
	return result.Version, nil
}

func apply(cfg *Config, data []byte) error {
	version, err := parseVersionFromYAML(data)
	if err != nil {
		return err
	}
	switch version {
	case currentVersion:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return errors.Wrapf(err, "failed to parse %s config", version)
		}
		return nil
	default:
		return errors.Errorf("unknown version: %q", version)
	}
}
