// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// DocumentFormat identifies the on-disk configuration syntax.
type DocumentFormat string

const (
	FormatYAML DocumentFormat = "yaml"
	FormatTOML DocumentFormat = "toml"
	FormatLua  DocumentFormat = "lua"
)

// FormatForPath picks the document format from a file extension.
func FormatForPath(path string) (DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".lua":
		return FormatLua, nil
	default:
		return "", fmt.Errorf("config: unsupported file extension %q", filepath.Ext(path))
	}
}

// Load reads, validates and normalizes a configuration file.
func Load(path string) (*Config, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data, format)
}

// Parse decodes an in-memory document, applies defaults for omitted
// keys, validates it and finally normalizes it.
func Parse(data []byte, format DocumentFormat) (*Config, error) {
	var (
		cfg  Config
		keys documentKeys
	)

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: yaml: %w", err)
		}
		if err := yaml.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("config: yaml: %w", err)
		}

	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: toml: unknown key %q", undecoded[0].String())
		}
		if _, err := toml.Decode(string(data), &keys); err != nil {
			return nil, fmt.Errorf("config: toml: %w", err)
		}

	case FormatLua:
		if err := decodeLua(string(data), &cfg, &keys); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("config: unsupported format %q", format)
	}

	keys.applyTo(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	Normalize(&cfg)

	return &cfg, nil
}

// decodeLua runs the script; it must return the config table.
func decodeLua(src string, cfg *Config, keys *documentKeys) error {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return fmt.Errorf("config: lua: %w", err)
	}

	table, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return fmt.Errorf("config: lua script did not return a table")
	}

	if err := gluamapper.Map(table, cfg); err != nil {
		return fmt.Errorf("config: lua: %w", err)
	}
	if err := gluamapper.Map(table, keys); err != nil {
		return fmt.Errorf("config: lua: %w", err)
	}

	return nil
}

// ParsePayloadFormat maps a user-supplied format tag onto a PayloadFormat.
func ParsePayloadFormat(s string) (PayloadFormat, error) {
	switch PayloadFormat(strings.ToLower(strings.TrimSpace(s))) {
	case PayloadHex:
		return PayloadHex, nil
	case PayloadText:
		return PayloadText, nil
	case PayloadFile:
		return PayloadFile, nil
	default:
		return "", fmt.Errorf("unsupported payload format %q", s)
	}
}
