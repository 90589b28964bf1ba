package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// sectionDecoder decodes one top-level YAML node into its Config field.
type sectionDecoder func(target *Config, node *yaml.Node) error

// replaceWith decodes node into a zero T and hands it to set, so a section
// named in an overlay replaces the whole field.
func replaceWith[T any](set func(*Config, T)) sectionDecoder {
	return func(target *Config, node *yaml.Node) error {
		var v T
		if err := node.Decode(&v); err != nil {
			return err
		}
		set(target, v)
		return nil
	}
}

// sections maps each top-level config key to its decoder. Other keys are ignored.
//
//nolint:gochecknoglobals // Fixed lookup table.
var sections = map[string]sectionDecoder{
	"schema_version": replaceWith(func(c *Config, v string) { c.SchemaVersion = v }),
	"api":            replaceWith(func(c *Config, v APIConfig) { c.API = v }),
	"view":           replaceWith(func(c *Config, v ViewConfig) { c.View = v }),
	"cache":          replaceWith(func(c *Config, v CacheConfig) { c.Cache = v }),
	"logging":        replaceWith(func(c *Config, v LoggingConfig) { c.Logging = v }),
}

// ShallowMergeYAML overlays the sections found in the YAML file at overlayPath
// onto target. Sections absent from the file keep their current values.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		decode, ok := sections[key]
		if !ok {
			continue
		}
		if err = decode(target, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}
