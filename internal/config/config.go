package config

import (
	"fmt"
	"os"

	dserrors "github.com/systmms/gstack/internal/errors"
	"github.com/systmms/gstack/internal/logging"
	"github.com/systmms/gstack/internal/secure"
	"github.com/systmms/gstack/pkg/stack"
	"gopkg.in/yaml.v3"
)

// Allocator kinds accepted in gstack.yaml
const (
	AllocatorHeap    = "heap"
	AllocatorLocked  = "locked"
	AllocatorLimited = "limited"
)

// Formatter kinds accepted in gstack.yaml
const (
	FormatterDecimal = "decimal"
	FormatterHex     = "hex"
)

// Config holds the runtime configuration
type Config struct {
	Path   string
	Logger *logging.Logger
	// Explicit is set when the path was given on the command line; a
	// missing explicit file is an error, a missing default file is not.
	Explicit   bool
	Definition *Definition
}

// Definition represents the gstack.yaml structure
type Definition struct {
	Version      int              `yaml:"version"`
	Protection   ProtectionConfig `yaml:"protection"`
	Allocator    string           `yaml:"allocator"`
	MemoryLimit  int              `yaml:"memoryLimit"`
	AbortOnFault bool             `yaml:"abortOnFault"`
	Metrics      MetricsConfig    `yaml:"metrics"`
	Formatter    string           `yaml:"formatter"`
}

// ProtectionConfig toggles the integrity checks independently
type ProtectionConfig struct {
	Guards    bool `yaml:"guards"`
	Checksums bool `yaml:"checksums"`
}

// MetricsConfig controls Prometheus instrumentation
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Defaults returns the definition used when no file is present
func Defaults() Definition {
	return Definition{
		Version:    1,
		Protection: ProtectionConfig{Guards: true, Checksums: true},
		Allocator:  AllocatorHeap,
		Formatter:  FormatterDecimal,
	}
}

// Load reads and parses the gstack.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if !c.Explicit {
				def := Defaults()
				c.Definition = &def
				if c.Logger != nil {
					c.Logger.Debug("no configuration at %s, using defaults", c.Path)
				}
				return nil
			}
			return dserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Run 'gstack config --write' to create a configuration file",
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}
	c.Definition = def
	return nil
}

// Parse validates and decodes a gstack.yaml document
func Parse(data []byte) (*Definition, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	def := Defaults()
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "configuration does not match the expected structure",
			Suggestion: err.Error(),
		}
	}

	if def.Version != 1 {
		return nil, dserrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 1' at the top of your gstack.yaml file",
		}
	}
	if def.Allocator == AllocatorLimited && def.MemoryLimit <= 0 {
		return nil, dserrors.ConfigError{
			Field:      "memoryLimit",
			Value:      def.MemoryLimit,
			Message:    "the limited allocator needs a positive memory limit",
			Suggestion: "Set 'memoryLimit' to a byte count, e.g. 4096",
		}
	}
	return &def, nil
}

// Active returns the loaded definition or the defaults
func (c *Config) Active() Definition {
	if c.Definition == nil {
		return Defaults()
	}
	return *c.Definition
}

// StackOptions translates the definition into construction options
func (d Definition) StackOptions() ([]stack.Option, error) {
	alloc, err := d.NewAllocator()
	if err != nil {
		return nil, err
	}
	opts := []stack.Option{
		stack.WithProtection(stack.Protection{
			Guards:    d.Protection.Guards,
			Checksums: d.Protection.Checksums,
		}),
		stack.WithAllocator(alloc),
	}

	switch d.Formatter {
	case "", FormatterDecimal:
		opts = append(opts, stack.WithFormatter(stack.DecimalFormatter{}))
	case FormatterHex:
		opts = append(opts, stack.WithFormatter(stack.HexFormatter{}))
	default:
		return nil, dserrors.ConfigError{
			Field:      "formatter",
			Value:      d.Formatter,
			Message:    "unknown formatter",
			Suggestion: fmt.Sprintf("Use %q or %q", FormatterDecimal, FormatterHex),
		}
	}
	return opts, nil
}

// NewAllocator builds the allocator named by the definition
func (d Definition) NewAllocator() (stack.Allocator, error) {
	switch d.Allocator {
	case "", AllocatorHeap:
		return stack.HeapAllocator{}, nil
	case AllocatorLocked:
		return secure.NewLockedAllocator(d.MemoryLimit), nil
	case AllocatorLimited:
		return stack.NewLimitAllocator(d.MemoryLimit), nil
	default:
		return nil, dserrors.ConfigError{
			Field:      "allocator",
			Value:      d.Allocator,
			Message:    "unknown allocator",
			Suggestion: fmt.Sprintf("Use %q, %q or %q", AllocatorHeap, AllocatorLocked, AllocatorLimited),
		}
	}
}

// Marshal renders the definition as YAML
func (d Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
