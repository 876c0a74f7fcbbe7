package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBusName    = "io.github.wmstack"
	DefaultObjectPath = "/io/github/wmstack"
)

// Config is the effective daemon configuration.
type Config struct {
	LogLevel                  string     `yaml:"log_level"`
	PublishClientListStacking bool       `yaml:"publish_client_list_stacking"`
	ReconcileInterval         Duration   `yaml:"reconcile_interval"`
	OnTopStates               []string   `yaml:"ontop_states"`
	PanelTypes                []string   `yaml:"panel_types"`
	RaisedPanelStates         []string   `yaml:"raised_panel_states"`
	DBus                      DBusConfig `yaml:"dbus"`
	IPC                       IPCConfig  `yaml:"ipc"`
}

// DBusConfig controls the session bus stacking service.
type DBusConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BusName    string `yaml:"bus_name"`
	ObjectPath string `yaml:"object_path"`
}

// IPCConfig controls the unix socket control server.
type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Duration is a time.Duration read from strings like "10s" or "1m30s".
// Bare integers are milliseconds; 0 disables.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid duration: expected a scalar")
	}
	s := strings.TrimSpace(value.Value)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:                  "info",
		PublishClientListStacking: true,
		ReconcileInterval:         Duration(10 * time.Second),
		OnTopStates:               []string{"_NET_WM_STATE_STAYS_ON_TOP"},
		PanelTypes:                []string{"_NET_WM_WINDOW_TYPE_DOCK"},
		RaisedPanelStates:         []string{"_NET_WM_STATE_ABOVE"},
		DBus: DBusConfig{
			BusName:    DefaultBusName,
			ObjectPath: DefaultObjectPath,
		},
		IPC: IPCConfig{Enabled: true},
	}
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	if err := validateAtoms("ontop_states", c.OnTopStates, "_"); err != nil {
		return err
	}
	if err := validateAtoms("panel_types", c.PanelTypes, "_NET_WM_WINDOW_TYPE_"); err != nil {
		return err
	}
	if err := validateAtoms("raised_panel_states", c.RaisedPanelStates, "_"); err != nil {
		return err
	}
	if c.DBus.Enabled {
		if strings.TrimSpace(c.DBus.BusName) == "" {
			return &ValidationError{Path: "dbus.bus_name", Err: fmt.Errorf("bus_name is required when dbus is enabled")}
		}
		if !strings.HasPrefix(c.DBus.ObjectPath, "/") {
			return &ValidationError{Path: "dbus.object_path", Err: fmt.Errorf("object_path must start with /")}
		}
	}
	return nil
}

func validateAtoms(path string, atoms []string, prefix string) error {
	for i, atom := range atoms {
		if strings.TrimSpace(atom) == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("entry %d is empty", i)}
		}
		if !strings.HasPrefix(atom, prefix) {
			return &ValidationError{Path: path, Err: fmt.Errorf("%q must start with %s", atom, prefix)}
		}
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
