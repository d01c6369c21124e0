// Package settings loads the host settings file (procselect.yaml).
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndyGlx/am-process-selector/internal/ctxlog"
)

const (
	// FileName is the settings file looked up in the working directory.
	FileName = "procselect.yaml"
	// EnvVar names an explicit settings file when --config is not given.
	EnvVar = "PROCSELECT_CONFIG"

	currentVersion = 1
)

// DefaultYAML is written by --init-config.
const DefaultYAML = `# process selector settings
version: 1

# Tabular source (path or http(s) URL). Preferred whenever it can be fetched.
source: process_variants.csv
# Structured fallback (JSON, or YAML when the name ends in .yaml/.yml).
fallback: config.json

web:
  addr: ":8080"
  # Reload the configuration when the source file changes.
  watch: false

log:
  level: info   # debug | info | warn | error
  format: text  # text | json
  file: ""
`

// WebSettings configures the web renderer.
type WebSettings struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Settings models procselect.yaml.
type Settings struct {
	Version  int         `yaml:"version"`
	Source   string      `yaml:"source"`
	Fallback string      `yaml:"fallback"`
	Web      WebSettings `yaml:"web"`
	Log      LogSettings `yaml:"log"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Version:  currentVersion,
		Source:   "process_variants.csv",
		Fallback: "config.json",
		Web:      WebSettings{Addr: ":8080"},
		Log:      LogSettings{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path falls back to
// $PROCSELECT_CONFIG and then ./procselect.yaml; a missing implicit file is
// not an error, a missing explicit one is. Load does not validate: callers
// apply their overrides first and then call Validate.
func Load(path string) (Settings, error) {
	s := Default()
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvVar)
		explicit = path != ""
	}
	if path == "" {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return s, nil
		}
		return s, fmt.Errorf("settings: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects values the host cannot act on.
func (s *Settings) Validate() error {
	if s.Version != currentVersion {
		return fmt.Errorf("unsupported version %d", s.Version)
	}
	if _, ok := ctxlog.ParseLevel(s.Log.Level); !ok {
		return fmt.Errorf("invalid log level %q: must be debug, info, warn or error", s.Log.Level)
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", s.Log.Format)
	}
	if strings.TrimSpace(s.Source) == "" && strings.TrimSpace(s.Fallback) == "" {
		return errors.New("at least one of source or fallback is required")
	}
	return nil
}

// WriteDefault writes DefaultYAML to path unless a file is already there.
func WriteDefault(path string) error {
	if path == "" {
		path = FileName
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings: %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(DefaultYAML), 0o644)
}
