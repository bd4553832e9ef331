package config

import (
	"io/fs"
	"path"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrRootConfigNotFound = errors.New("root configuration file not found")

// Loader finds configuration files in a file system. The root file lives
// at the top; directories below may carry their own file, which applies
// to documents in that directory and deeper.
type Loader struct {
	fsys   fs.FS
	name   string
	logger *zap.Logger
}

type LoaderOption func(*Loader)

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for files called name, for example
// "editorcore.yaml".
func NewLoader(name string, fsys fs.FS, opts ...LoaderOption) *Loader {
	if name == "" {
		panic("config name is not set")
	}
	l := &Loader{fsys: fsys, name: name}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l
}

func (l *Loader) RootConfig() ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, l.name)
	if err != nil {
		return nil, ErrRootConfigNotFound
	}
	return data, nil
}

// FindConfigChain returns the contents of the root file and of every
// nested file on the way to dir, outermost first.
func (l *Loader) FindConfigChain(dir string) ([][]byte, error) {
	dir = path.Clean(strings.TrimPrefix(dir, "/"))

	candidates := []string{l.name}
	if dir != "." && dir != "" {
		cur := ""
		for _, fragment := range strings.Split(dir, "/") {
			cur = path.Join(cur, fragment)
			candidates = append(candidates, path.Join(cur, l.name))
		}
	}

	var result [][]byte
	for _, candidate := range candidates {
		data, err := fs.ReadFile(l.fsys, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", candidate)
		}
		l.logger.Debug("found config file", zap.String("path", candidate))
		result = append(result, data)
	}
	return result, nil
}

// Load parses the chain for dir. Without any file it returns the
// defaults.
func (l *Loader) Load(dir string) (*Config, error) {
	chain, err := l.FindConfigChain(dir)
	if err != nil {
		return nil, err
	}
	return ParseChain(chain)
}
