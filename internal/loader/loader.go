// Package loader reads and parses interface-description documents. It is the
// only layer that touches the filesystem; the rest of the pipeline consumes
// parsed documents through the Service.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/apifold/tsgen/internal/console"
)

// Service reads schema documents relative to a base directory.
type Service struct {
	baseDir string
}

// Option configures a loader service.
type Option func(*Service)

// NewService creates a new loader service with optional configuration.
func NewService(options ...Option) *Service {
	s := &Service{
		baseDir: ".",
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// WithBaseDir sets the directory reference file names are resolved against.
func WithBaseDir(dir string) Option {
	return func(s *Service) {
		s.baseDir = dir
	}
}

// ReadDocument reads and parses the named document. YAML documents are
// converted to JSON before decoding so both grammars share one parse path.
func (s *Service) ReadDocument(name string) (*Document, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(name))

	console.Logger.Debug("reading document %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", name, err)
	}

	if isYAML(name) {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s to JSON: %w", name, err)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", name, err)
	}

	return &doc, nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
