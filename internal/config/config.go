// Package config provides configuration data structures for gorestaurant.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config represents the complete configuration loaded from
// .gorestaurant/config.yaml.
type Config struct {
	API    APIConfig    `yaml:"api"    json:"api"`
	Server ServerConfig `yaml:"server" json:"server"`
	Log    LogConfig    `yaml:"log"    json:"log"`
}

// APIConfig configures the client side of the /foods backend.
type APIConfig struct {
	// BaseURL is the backend root; requests go to BaseURL + "/foods".
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Timeout bounds every single request (default: 10s).
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// ServerConfig configures the local mock backend started by "serve".
type ServerConfig struct {
	// Addr is the listen address (default: 127.0.0.1:3333).
	Addr string `yaml:"addr" json:"addr"`
	// DataFile is the JSON file the mock backend persists to.
	DataFile string `yaml:"data_file" json:"data_file"`
}

// LogLevel is the minimum level written to the log.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogConfig configures file logging.
type LogConfig struct {
	// Level is the minimum level to log (default: info).
	Level LogLevel `yaml:"level" json:"level"`
	// Dir is where log files are written (default: .gorestaurant/logs).
	Dir string `yaml:"dir" json:"dir"`
	// JSON switches the log format from text to JSON.
	JSON bool `yaml:"json" json:"json"`
}

// Default values.
const (
	DefaultBaseURL   = "http://localhost:3333"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "gorestaurant"
	DefaultAddr      = "127.0.0.1:3333"
	DefaultDataFile  = ".gorestaurant/foods.json"
	DefaultLogDir    = ".gorestaurant/logs"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		Server: ServerConfig{
			Addr:     DefaultAddr,
			DataFile: DefaultDataFile,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
			Dir:   DefaultLogDir,
			JSON:  false,
		},
	}
}

// ApplyDefaults fills in any unset fields after loading.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaults.API.UserAgent
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.DataFile == "" {
		c.Server.DataFile = defaults.Server.DataFile
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Dir == "" {
		c.Log.Dir = defaults.Log.Dir
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if err := validateBaseURL(c.API.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.API.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "api.timeout", Message: "must be non-negative"})
	}

	if c.Server.Addr == "" {
		errs = append(errs, &ValidationError{Field: "server.addr", Message: "is required"})
	}

	if c.Log.Level != "" {
		switch c.Log.Level {
		case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "log.level",
				Message: "must be 'debug', 'info', 'warn', or 'error'",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateBaseURL(raw string) *ValidationError {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "api.base_url", Message: fmt.Sprintf("invalid URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "api.base_url", Message: "must use http or https"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "api.base_url", Message: "must include a host"}
	}
	return nil
}
