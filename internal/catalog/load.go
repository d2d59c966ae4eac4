package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadError reports a catalog that could not be fetched or failed validation.
// It is fatal for anything that needs the catalog.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading catalog from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Provider supplies the catalog.
type Provider interface {
	FetchCatalog(ctx context.Context) (*Catalog, error)
}

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Parse decodes and validates a catalog document.
func Parse(data []byte, format Format) (*Catalog, error) {
	c := &Catalog{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing catalog JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing catalog YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog validation: %w", err)
	}
	return c, nil
}

// Load reads a catalog file. The format follows the file extension
// (.yaml/.yml, anything else is JSON).
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return c, nil
}

// FileProvider loads the catalog from a file on every fetch.
type FileProvider struct {
	Path string
}

// FetchCatalog implements Provider.
func (p FileProvider) FetchCatalog(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: p.Path, Err: err}
	}
	return Load(p.Path)
}
