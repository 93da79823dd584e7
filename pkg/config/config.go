package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all options for a single rechain run
type Config struct {
	// Target is the file path or URL to read
	Target string

	// Patterns are applied in order; PatternFile patterns run first
	Patterns    []string
	PatternFile string

	// Behavior flags
	Multiline bool
	Timeout   time.Duration
	Verbose   bool
}

// patternFile is the mapping form of a pattern file
type patternFile struct {
	Patterns []string `yaml:"patterns"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Patterns: []string{},
	}
}

// Finalize merges the pattern file ahead of the flag patterns and validates
// the result
func (c *Config) Finalize() error {
	if c.PatternFile != "" {
		filePatterns, err := LoadPatternFile(c.PatternFile)
		if err != nil {
			return fmt.Errorf("failed to load pattern file: %w", err)
		}
		c.Patterns = append(filePatterns, c.Patterns...)
	}

	if err := validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// LoadPatternFile reads patterns from a YAML file. The file is either a
// sequence of strings or a mapping with a "patterns" key.
func LoadPatternFile(path string) ([]string, error) {
	// #nosec G304 - The pattern file path is given explicitly by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parsePatterns(data)
}

func parsePatterns(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	// Empty file
	if len(doc.Content) == 0 {
		return []string{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var patterns []string
		if err := root.Decode(&patterns); err != nil {
			return nil, err
		}
		return patterns, nil

	case yaml.MappingNode:
		var pf patternFile
		if err := root.Decode(&pf); err != nil {
			return nil, err
		}
		return pf.Patterns, nil

	default:
		return nil, fmt.Errorf("line %d: expected a list of patterns or a mapping with a patterns key", root.Line)
	}
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Target == "" {
		return errors.New("a file or URL is required")
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}
