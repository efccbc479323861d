package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	sgerrors "github.com/airvair/stampgraph/pkg/errors"
)

// Format identifies a model file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", sgerrors.New(sgerrors.ErrCodeInvalidFormat, "unsupported model file extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

// Load reads and decodes a model file. The encoding follows the extension.
func Load(path string) (Model, error) {
	if err := sgerrors.ValidatePath(path); err != nil {
		return Model{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Model{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Model{}, sgerrors.Wrap(sgerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Model{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a model in the given encoding.
func Decode(r io.Reader, format Format) (Model, error) {
	var m Model
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return Model{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidModel, err, "decode json model")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
			return Model{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidModel, err, "decode yaml model")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
			return Model{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidModel, err, "decode toml model")
		}
	default:
		return Model{}, sgerrors.New(sgerrors.ErrCodeInvalidFormat, "unknown model format %q", format)
	}
	return m, nil
}

// Encode writes a model in the given encoding.
func Encode(w io.Writer, m Model, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	}
	return sgerrors.New(sgerrors.ErrCodeInvalidFormat, "unknown model format %q", format)
}

// Marshal encodes a model as compact JSON. The output is stable for equal
// models and is what cache keys are derived from.
func Marshal(m Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return buf.Bytes(), nil
}
