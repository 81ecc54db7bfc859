// Package config resolves the settings for one cfgseal run.
//
// Defaults are built in. A TOML file may override the input and output
// paths and the field table; cryptographic parameters only change in code
// (tests use a reduced iteration count).
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"cfgseal/internal/envelope"
	kerrors "cfgseal/internal/errors"
	"cfgseal/internal/extract"

	"github.com/BurntSushi/toml"
)

const (
	DefaultInputPath  = "../js/config.js"
	DefaultOutputPath = "../js/config.encrypted.json"
)

// Config is the explicit configuration passed to the seal workflow.
type Config struct {
	InputPath  string
	OutputPath string
	// Fields lists the declarations to extract; the first one is required.
	Fields []extract.Field
	Crypto envelope.Params
}

type fileConfig struct {
	Input  string       `toml:"input"`
	Output string       `toml:"output"`
	Fields []fieldEntry `toml:"field"`
}

type fieldEntry struct {
	Name     string `toml:"name"`
	Declared string `toml:"declared"`
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// DefaultFields returns the six declarations read by the browser runtime.
func DefaultFields() []extract.Field {
	return []extract.Field{
		{Name: "MODELES_COPIEURS", Declared: "MODELES_COPIEURS_DEFAUT"},
		{Name: "MEMOS_EXPERTS", Declared: "MEMOS_EXPERTS"},
		{Name: "CONTRATS_TYPES", Declared: "CONTRATS_TYPES"},
		{Name: "QUESTIONNAIRES", Declared: "QUESTIONNAIRES"},
		{Name: "NOMS_SIMULES", Declared: "NOMS_SIMULES"},
		{Name: "ANALYSE_TEMPLATES", Declared: "ANALYSE_TEMPLATES"},
	}
}

func Default() Config {
	return Config{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		Fields:     DefaultFields(),
		Crypto:     envelope.DefaultParams(),
	}
}

// Load overlays the TOML file at path on the defaults. Relative paths in
// the file are resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()

	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", kerrors.ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	if fc.Input != "" {
		cfg.InputPath = resolve(base, fc.Input)
	}
	if fc.Output != "" {
		cfg.OutputPath = resolve(base, fc.Output)
	}
	if len(fc.Fields) > 0 {
		cfg.Fields = make([]extract.Field, 0, len(fc.Fields))
		for _, f := range fc.Fields {
			declared := f.Declared
			if declared == "" {
				declared = f.Name
			}
			cfg.Fields = append(cfg.Fields, extract.Field{Name: f.Name, Declared: declared})
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is empty", kerrors.ErrInvalidConfig)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", kerrors.ErrInvalidConfig)
	}
	if filepath.Clean(c.InputPath) == filepath.Clean(c.OutputPath) {
		return fmt.Errorf("%w: output path would overwrite the input", kerrors.ErrInvalidConfig)
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: no fields configured", kerrors.ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field with empty name", kerrors.ErrInvalidConfig)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", kerrors.ErrInvalidConfig, f.Name)
		}
		seen[f.Name] = true
		if !identifier.MatchString(f.Declared) {
			return fmt.Errorf("%w: %q is not a valid identifier", kerrors.ErrInvalidConfig, f.Declared)
		}
	}

	return c.Crypto.Validate()
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
