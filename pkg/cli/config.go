package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".vosk"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Config represents the main configuration structure for a CLI app
type Config struct {
	// AppName is the application name (e.g., "vosk")
	AppName string `yaml:"-"`

	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts is a map of context name to context configuration
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Context is a named set of recognition defaults: which models and library
// to load and how to configure recognizers.
type Context struct {
	// Name is the context name
	Name string `yaml:"name"`

	// Model is the acoustic model directory
	Model string `yaml:"model"`

	// SpeakerModel is the speaker model directory (optional)
	SpeakerModel string `yaml:"speaker_model,omitempty"`

	// Library is the libvosk path (optional, uses the default search if empty)
	Library string `yaml:"library,omitempty"`

	// SampleRate of input audio in Hz (optional, 16000 if zero)
	SampleRate int `yaml:"sample_rate,omitempty"`

	// LogLevel is the native log level; nil leaves the library default
	LogLevel *int `yaml:"log_level,omitempty"`

	// Words enables word timings in final results
	Words bool `yaml:"words,omitempty"`

	// PartialWords enables word timings in partial results
	PartialWords bool `yaml:"partial_words,omitempty"`

	// MaxAlternatives requests n-best results when positive
	MaxAlternatives int `yaml:"max_alternatives,omitempty"`

	// Grammar restricts recognition to these phrases (optional)
	Grammar []string `yaml:"grammar,omitempty"`

	// Listen is the address the server binds (optional)
	Listen string `yaml:"listen,omitempty"`

	// StoreDir is the transcript database directory (optional)
	StoreDir string `yaml:"store_dir,omitempty"`
}

// DefaultSampleRate is used when a context does not set one.
const DefaultSampleRate = 16000

// DefaultListen is the server address used when a context does not set one.
const DefaultListen = "127.0.0.1:2700"

// Rate returns the configured sample rate or DefaultSampleRate.
func (ctx *Context) Rate() int {
	if ctx.SampleRate > 0 {
		return ctx.SampleRate
	}
	return DefaultSampleRate
}

// Addr returns the configured listen address or DefaultListen.
func (ctx *Context) Addr() string {
	if ctx.Listen != "" {
		return ctx.Listen
	}
	return DefaultListen
}

// Validate checks the context for settings that cannot work together.
func (ctx *Context) Validate() error {
	var errs []error
	if ctx.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if ctx.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("sample_rate must not be negative, got %d", ctx.SampleRate))
	}
	if ctx.MaxAlternatives < 0 {
		errs = append(errs, fmt.Errorf("max_alternatives must not be negative, got %d", ctx.MaxAlternatives))
	}
	if len(ctx.Grammar) > 0 && ctx.SpeakerModel != "" {
		errs = append(errs, errors.New("grammar and speaker_model cannot be used together"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("context %q: %w", ctx.Name, err)
	}
	return nil
}

// LoadConfigWithPath loads or creates configuration for the specified app.
// An empty customPath selects ~/.vosk/<app>/config.yaml.
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	var configPath string

	if customPath != "" {
		configPath = customPath
	} else {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}

	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext adds or replaces a context. The first context added becomes
// the current one.
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	if err := ctx.Validate(); err != nil {
		return err
	}
	c.Contexts[name] = ctx
	if c.CurrentContext == "" {
		c.CurrentContext = name
	}
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, or current context if name is empty
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names in sorted order
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
