package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MARGINALIA_"

// envKeys maps environment variable suffixes to configuration paths.
var envKeys = map[string][]string{
	"DEBOUNCE":           {"debounce"},
	"INITIAL_DELAY":      {"initial_delay"},
	"COPY_RESET":         {"copy_reset"},
	"HIGHLIGHT":          {"highlight"},
	"PANEL_TITLE":        {"panel", "title"},
	"PANEL_PLACEHOLDER":  {"panel", "placeholder"},
	"PANEL_TRUNCATE":     {"panel", "truncate"},
	"DISCOVERY_EXCLUDED": {"discovery", "excluded_tokens"},
	"CLIPBOARD":          {"clipboard", "backend"},
	"REDIS_ADDR":         {"clipboard", "redis", "addr"},
	"REDIS_KEY":          {"clipboard", "redis", "key"},
	"REDIS_TTL":          {"clipboard", "redis", "ttl"},
	"HTTP_PORT":          {"http", "port"},
	"LOG_LEVEL":          {"log_level"},
}

// Loader reads configuration from a file, a .env file and the environment,
// in increasing order of precedence.
type Loader struct {
	// Path is a YAML or JSON file. A missing file is not an error.
	Path string
	// DotEnv is a .env file. A missing file is not an error.
	DotEnv string
	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load is Loader{Path: path, DotEnv: ".env"}.Load().
func Load(path string) (*Config, error) {
	return Loader{Path: path, DotEnv: ".env"}.Load()
}

// Load builds and validates the configuration.
func (l Loader) Load() (*Config, error) {
	raw, err := readFile(l.Path)
	if err != nil {
		return nil, err
	}
	if err := l.applyEnv(raw); err != nil {
		return nil, err
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	c.Clipboard.Redis.Enabled = c.Clipboard.Backend == "redis"
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

func readFile(path string) (map[string]any, error) {
	raw := map[string]any{}
	if path == "" {
		return raw, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func (l Loader) applyEnv(raw map[string]any) error {
	dotenv := map[string]string{}
	if l.DotEnv != "" {
		values, err := godotenv.Read(l.DotEnv)
		switch {
		case err == nil:
			dotenv = values
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to read %s: %w", l.DotEnv, err)
		}
	}
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for suffix, path := range envKeys {
		name := EnvPrefix + suffix
		value, ok := lookup(name)
		if !ok {
			value, ok = dotenv[name]
		}
		if ok {
			set(raw, path, value)
		}
	}
	return nil
}

// set writes value at path, creating intermediate maps. yaml.v3 decodes
// nested mappings as map[string]any, so that is the only shape handled.
func set(m map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok || next == nil {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
