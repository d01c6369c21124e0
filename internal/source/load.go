package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndyGlx/am-process-selector/internal/csvconfig"
	"github.com/AndyGlx/am-process-selector/internal/ctxlog"
	"github.com/AndyGlx/am-process-selector/internal/model"
)

// Load reads the configuration, preferring the tabular source.
//
// If preferred can be fetched its text is parsed as tabular data and any
// parse error is returned as is, without trying the fallback. Only when
// preferred cannot be fetched is fallback fetched and decoded as a
// structured Configuration. When neither can be fetched the error is a
// *SourceUnavailableError. Nothing is retried.
func Load(ctx context.Context, preferred, fallback Source) (*model.Configuration, error) {
	logger := ctxlog.FromContext(ctx)

	prefErr := ErrNoSource
	if preferred != nil {
		rc, err := preferred.Open(ctx)
		if err == nil {
			defer rc.Close()
			cfg, err := csvconfig.ParseReader(rc)
			if err != nil {
				return nil, fmt.Errorf("source: %s: %w", preferred.Name(), err)
			}
			logger.Debug("configuration loaded", "source", preferred.Name(), "format", "tabular",
				"categories", len(cfg.Categories), "processes", len(cfg.Processes))
			return cfg, nil
		}
		prefErr = err
		logger.Warn("tabular source unavailable", "source", preferred.Name(), "error", err)
	}

	fbErr := ErrNoSource
	if fallback != nil {
		rc, err := fallback.Open(ctx)
		if err == nil {
			defer rc.Close()
			cfg, err := DecodeStructured(rc, fallback.Name())
			if err != nil {
				return nil, err
			}
			logger.Debug("configuration loaded", "source", fallback.Name(), "format", "structured",
				"categories", len(cfg.Categories), "processes", len(cfg.Processes))
			return cfg, nil
		}
		fbErr = err
	}

	unavailable := &SourceUnavailableError{PreferredErr: prefErr, FallbackErr: fbErr}
	if preferred != nil {
		unavailable.Preferred = preferred.Name()
	}
	if fallback != nil {
		unavailable.Fallback = fallback.Name()
	}
	return nil, unavailable
}

// DecodeStructured decodes a Configuration verbatim. Names ending in .yaml
// or .yml are read as YAML, everything else as JSON.
func DecodeStructured(r io.Reader, name string) (*model.Configuration, error) {
	var cfg model.Configuration
	base, _, _ := strings.Cut(name, "?")
	switch strings.ToLower(path.Ext(base)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("source: decode %s: %w", name, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("source: decode %s: %w", name, err)
		}
	}
	return &cfg, nil
}
