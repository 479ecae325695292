// Package config holds the shell's user-tunable settings: prompt template,
// history location, and an optional search path override.
package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file name looked up inside the config directory.
const ConfigurationName = "config.yaml"

type Configuration struct {
	// Prompt is the PS1-style prompt template. Supported expansions:
	// \u user, \h hostname, \w working directory, \$ prompt character.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile is where the line editor persists history. Empty
	// disables persistence. A leading ~/ expands from $HOME.
	HistoryFile string `json:"history_file"`

	// HistorySize caps the number of retained history entries.
	HistorySize int `json:"history_size" validate:"gte=0"`

	// Path, when set, overrides the PATH environment variable for command
	// resolution and completion.
	Path string `json:"path"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Default returns the embedded default configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
