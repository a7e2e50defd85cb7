// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
	"gitlab.com/trincinetwork/trinci-sign/internal/logging"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override the
// configuration, such as TRINCI_SIGN_NODE_URL.
const EnvPrefix = "TRINCI_SIGN"

const (
	DefaultTimeout   = 15 * time.Second
	DefaultLogFormat = "plain"
)

// LogLevel defines the default and per-module log level.
type LogLevel struct {
	Default string
	Modules [][2]string
}

// Parse parses a string such as "error;client=debug" into a LogLevel.
func (l LogLevel) Parse(s string) LogLevel {
	for _, s := range strings.Split(s, ";") {
		s := strings.SplitN(s, "=", 2)
		if len(s) == 1 {
			l.Default = s[0]
		} else {
			l.Modules = append(l.Modules, [2]string{s[0], s[1]})
		}
	}
	return l
}

// SetDefault sets the default log level.
func (l LogLevel) SetDefault(level string) LogLevel {
	l.Default = level
	return l
}

// SetModule sets the log level for a module.
func (l LogLevel) SetModule(module, level string) LogLevel {
	l.Modules = append(l.Modules, [2]string{module, level})
	return l
}

// String converts the log level into a string, for example
// "error;client=debug".
func (l LogLevel) String() string {
	s := new(strings.Builder)
	s.WriteString(l.Default)
	for _, m := range l.Modules {
		fmt.Fprintf(s, ";%s=%s", m[0], m[1])
	}
	return s.String()
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *LogLevel) UnmarshalText(b []byte) error {
	*l = LogLevel{}.Parse(string(b))
	return nil
}

var DefaultLogLevels = LogLevel{}.
	SetDefault("error").
	// SetModule("build", "debug").
	// SetModule("client", "debug").
	String()

type Config struct {
	Node Node `toml:"node" mapstructure:"node"`
	Log  Log  `toml:"log" mapstructure:"log"`
}

type Node struct {
	// URL is the node's transaction endpoint.
	URL     string        `toml:"url" mapstructure:"url" validate:"omitempty,url"`
	Timeout time.Duration `toml:"timeout" mapstructure:"timeout" validate:"gte=1s,lte=5m"`
}

type Log struct {
	Level  LogLevel `toml:"level" mapstructure:"level" validate:"-"`
	Format string   `toml:"format" mapstructure:"format" validate:"oneof=plain text json"`
}

func Default() *Config {
	c := new(Config)
	c.Node.Timeout = DefaultTimeout
	c.Log.Level = LogLevel{}.Parse(DefaultLogLevels)
	c.Log.Format = DefaultLogFormat
	return c
}

// NewViper returns a viper instance with the defaults set and environment
// overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("node.url", d.Node.URL)
	v.SetDefault("node.timeout", d.Node.Timeout)
	v.SetDefault("log.level", d.Log.Level.String())
	v.SetDefault("log.format", d.Log.Format)
	return v
}

// Load reads the configuration file, if one is set, and returns the validated
// configuration.
func Load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		err := v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("read: %v", err)
		}
	}

	c := new(Config)
	err := v.Unmarshal(c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("unmarshal: %v", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile loads the configuration from a TOML, YAML or JSON file.
func LoadFile(file string) (*Config, error) {
	v := NewViper()
	v.SetConfigFile(file)
	return Load(v)
}

func (c *Config) Validate() error {
	if _, err := logging.ParseLevels(c.Log.Level.String()); err != nil {
		return fmt.Errorf("validate: log.level: %w", err)
	}

	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate: %v", err)
	}
	var msgs []string
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("validate: %s", strings.Join(msgs, ", "))
}

func (c *Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"node": map[string]interface{}{
			"url":     c.Node.URL,
			"timeout": c.Node.Timeout.String(),
		},
		"log": map[string]interface{}{
			"level":  c.Log.Level.String(),
			"format": c.Log.Format,
		},
	}
}

// Store writes the configuration as TOML.
func Store(w io.Writer, c *Config) error {
	tree, err := toml.TreeFromMap(c.toMap())
	if err != nil {
		return err
	}

	_, err = tree.WriteTo(w)
	return err
}

// StoreYAML writes the configuration as YAML.
func StoreYAML(w io.Writer, c *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(c.toMap())
	if err != nil {
		return err
	}
	return enc.Close()
}
