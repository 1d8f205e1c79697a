package options

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/knights-analytics/basicpitch/util/fileutil"
)

// FileConfig is the on-disk form of the options.
// Zero values mean "unspecified" and leave the defaults in place.
type FileConfig struct {
	ModelDir         string   `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	LibraryDirs      []string `json:"library_dirs" yaml:"library_dirs" toml:"library_dirs"`
	OnnxRuntimePath  string   `json:"onnxruntime_library" yaml:"onnxruntime_library" toml:"onnxruntime_library"`
	DisabledRuntimes []string `json:"disabled_runtimes" yaml:"disabled_runtimes" toml:"disabled_runtimes"`
	RequireRuntime   bool     `json:"require_runtime" yaml:"require_runtime" toml:"require_runtime"`
}

// Load reads a local or s3:// configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := fileutil.ReadFileBytes(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Options converts the file contents to option functions.
func (c FileConfig) Options() []WithOption {
	var opts []WithOption
	if c.ModelDir != "" {
		opts = append(opts, WithBaseDir(c.ModelDir))
	}
	if len(c.LibraryDirs) > 0 {
		opts = append(opts, WithLibraryDirs(c.LibraryDirs...))
	}
	if c.OnnxRuntimePath != "" {
		opts = append(opts, WithOnnxLibraryPathUnchecked(c.OnnxRuntimePath))
	}
	if len(c.DisabledRuntimes) > 0 {
		opts = append(opts, WithDisabledRuntimes(c.DisabledRuntimes...))
	}
	if c.RequireRuntime {
		opts = append(opts, WithRequireRuntime())
	}
	return opts
}

// LoadFile loads a configuration file and returns its option functions.
func LoadFile(path string) ([]WithOption, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Options(), nil
}
