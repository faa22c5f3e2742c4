// Package config provides configuration management for the pkglint CLI.
//
// The lint section shares its shape with pkg/core.LintConfig, re-exported
// here via type aliases for convenience.
package config

import (
	"reflect"
	"slices"
	"strings"

	"github.com/leapstack-labs/pkglint/pkg/core"
)

// LintConfig is an alias for the shared lint configuration.
// This allows CLI code to use config.LintConfig without importing pkg/core.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string      `koanf:"state_path"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	Lint         *LintConfig `koanf:"lint"`

	// Resolved at load time, never read from configuration.
	ProjectRoot string `koanf:"-"`
	ConfigFile  string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".pkglint/history.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown

	// EnvPrefix prefixes environment overrides. A double underscore separates
	// nesting levels: PKGLINT_LINT__FOLD_CASE sets lint.fold_case.
	EnvPrefix = "PKGLINT_"
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"pkglint.yaml", "pkglint.yml"}

// LintSection returns the lint section, never nil.
func (c *Config) LintSection() *LintConfig {
	if c == nil || c.Lint == nil {
		return &LintConfig{}
	}
	return c.Lint
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// ScalarKeys returns the dotted koanf keys of every string, bool or integer
// setting in Config, sorted. These are the settings an environment variable
// can carry.
func ScalarKeys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	slices.Sort(keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Struct:
			collectKeys(ft, prefix+tag+".", keys)
		case reflect.String, reflect.Bool, reflect.Int:
			*keys = append(*keys, prefix+tag)
		}
	}
}
