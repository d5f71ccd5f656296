// internal/config/config.go
//
// Package config loads the optional seqvault config file. Values from the
// file become flag defaults, so flags given on the command line always
// win. Pointer fields distinguish "absent" from a zero value.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// File mirrors the YAML config schema.
type File struct {
	SecurityLevel *int   `yaml:"security-level"`
	ChunkSize     *int   `yaml:"chunk-size"`
	Strategy      string `yaml:"strategy"`
	Threads       *int   `yaml:"threads"`
	LineWidth     *int   `yaml:"line-width"`
	LogLevel      string `yaml:"log-level"`
	Progress      *bool  `yaml:"progress"`
}

// Load reads the config at path. An empty path is not an error and yields
// the zero File. Unknown keys are rejected so typos surface early.
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}
