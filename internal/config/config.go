// Package config loads the YAML configuration
// of the nicetable server.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	fs "github.com/ungerik/go-fs"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/domonda/go-nicetable"
)

const (
	defaultAddr         = ":8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultLogLevel     = "info"
)

// Config is the root of the YAML configuration.
type Config struct {
	Server ServerConfig  `yaml:"server"`
	Log    LogConfig     `yaml:"log"`
	Tables []TableConfig `yaml:"tables"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// TableConfig configures one hosted table.
type TableConfig struct {
	// Name is used in the URL path of the table.
	Name string `yaml:"name"`
	// Source is a file path or http(s) URL
	// of JSON, CSV or XLSX table data.
	Source     string `yaml:"source"`
	Caption    string `yaml:"caption"`
	TableClass string `yaml:"tableClass"`
	// MatchMode is "equal" (default) or "contains".
	MatchMode string `yaml:"matchMode"`
	// Locale is a BCP 47 tag for sorting, default "en".
	Locale string `yaml:"locale"`
	// Headers are merged by key into the headers of the
	// table source, CSV and XLSX sources have no other way
	// to make columns sortable or auto-filtered.
	Headers []HeaderConfig `yaml:"headers"`
}

// HeaderConfig configures one column of a table.
type HeaderConfig struct {
	Key         string `yaml:"key"`
	Display     string `yaml:"display"`
	Sortable    bool   `yaml:"sortable"`
	AutoFilters bool   `yaml:"autoFilters"`
}

// Options returns the nicetable options of the table.
// Call after Validate.
func (t *TableConfig) Options() []nicetable.Option {
	var opts []nicetable.Option
	if mode, err := nicetable.ParseMatchMode(t.MatchMode); err == nil {
		opts = append(opts, nicetable.WithMatchMode(mode))
	}
	if t.Locale != "" {
		if tag, err := language.Parse(t.Locale); err == nil {
			opts = append(opts, nicetable.WithLocale(tag))
		}
	}
	if len(t.Headers) > 0 {
		headers := make([]nicetable.Header, len(t.Headers))
		for i, h := range t.Headers {
			headers[i] = nicetable.Header{
				Key:         h.Key,
				Display:     h.Display,
				Sortable:    h.Sortable,
				AutoFilters: h.AutoFilters,
			}
		}
		opts = append(opts, nicetable.WithHeaders(headers...))
	}
	return opts
}

// Table returns the configuration of the table with name.
func (c *Config) Table(name string) (*TableConfig, bool) {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i], true
		}
	}
	return nil, false
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing or invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Load reads the YAML configuration file at location,
// applies defaults and the environment and validates the result.
func Load(ctx context.Context, location string) (*Config, error) {
	data, err := fs.File(location).ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data, os.LookupEnv)
}

// Parse parses YAML configuration data.
//
// The server address is overridden by the environment
// variable NICETABLE_ADDR, else by PORT.
func Parse(data []byte, lookupEnv func(string) (string, bool)) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if lookupEnv != nil {
		cfg.applyEnv(lookupEnv)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) {
	// Prefer NICETABLE_ADDR, then PORT as set by container platforms
	if addr, ok := lookupEnv("NICETABLE_ADDR"); ok && strings.TrimSpace(addr) != "" {
		c.Server.Addr = strings.TrimSpace(addr)
		return
	}
	if port, ok := lookupEnv("PORT"); ok && strings.TrimSpace(port) != "" {
		c.Server.Addr = ":" + strings.TrimSpace(port)
	}
}

// Validate checks the configuration for missing or invalid fields.
func (c *Config) Validate() error {
	var invalid []string

	if c.Server.Addr == "" {
		invalid = append(invalid, "server.addr")
	}
	if c.Server.ReadTimeout < 0 {
		invalid = append(invalid, "server.readTimeout")
	}
	if c.Server.WriteTimeout < 0 {
		invalid = append(invalid, "server.writeTimeout")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "log.level")
	}

	names := make(map[string]bool, len(c.Tables))
	for i, t := range c.Tables {
		field := fmt.Sprintf("tables[%d]", i)
		if t.Name == "" || strings.ContainsAny(t.Name, "/?#") || names[t.Name] {
			invalid = append(invalid, field+".name")
		}
		names[t.Name] = true
		if strings.TrimSpace(t.Source) == "" {
			invalid = append(invalid, field+".source")
		}
		if _, err := nicetable.ParseMatchMode(t.MatchMode); err != nil {
			invalid = append(invalid, field+".matchMode")
		}
		if t.Locale != "" {
			if _, err := language.Parse(t.Locale); err != nil {
				invalid = append(invalid, field+".locale")
			}
		}
		keys := make(map[string]bool, len(t.Headers))
		for j, h := range t.Headers {
			if h.Key == "" || keys[h.Key] {
				invalid = append(invalid, fmt.Sprintf("%s.headers[%d].key", field, j))
			}
			keys[h.Key] = true
		}
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}
