package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrColumnsInvalid          = errors.New("layout config: columns must be positive")
	ErrStorageProviderUnknown  = errors.New("layout config: storage provider is invalid")
	ErrStorageDSNRequired      = errors.New("layout config: storage dsn is required for sql providers")
	ErrCacheRequiresSQLStorage = errors.New("layout config: cache is only supported for sql storage")
	ErrTemplateDefinition      = errors.New("layout config: template definition is invalid")
	ErrLoggingProviderRequired = errors.New("layout config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("layout config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("layout config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("layout config: logging format is invalid")
	ErrSyncTimeoutInvalid      = errors.New("layout config: sync timeout must be zero or positive")
)

// Config aggregates the knobs of the layout engine.
type Config struct {
	Columns        int                  `yaml:"columns"`
	Skins          []string             `yaml:"skins"`
	RowTemplates   []TemplateDefinition `yaml:"row_templates"`
	BlockTemplates []TemplateDefinition `yaml:"block_templates"`
	Libraries      []LibraryConfig      `yaml:"libraries"`
	Markdown       MarkdownConfig       `yaml:"markdown"`
	Storage        StorageConfig        `yaml:"storage"`
	Cache          CacheConfig          `yaml:"cache"`
	Sync           SyncConfig           `yaml:"sync"`
	Logging        LoggingConfig        `yaml:"logging"`
	Features       Features             `yaml:"features"`
}

// TemplateDefinition describes an extra structural template. Row templates
// use Ratios, block templates use Slots and Tabbed.
type TemplateDefinition struct {
	Name   string    `yaml:"name"`
	Ratios []float64 `yaml:"ratios"`
	Slots  int       `yaml:"slots"`
	Tabbed bool      `yaml:"tabbed"`
}

// LibraryConfig feeds the versions content type.
type LibraryConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	URL     string `yaml:"url"`
}

// MarkdownConfig tunes the markdown content renderer.
type MarkdownConfig struct {
	HardWraps bool `yaml:"hard_wraps"`
	Unsafe    bool `yaml:"unsafe"`
}

// StorageConfig selects the backend of record.
type StorageConfig struct {
	Provider string `yaml:"provider"`
	DSN      string `yaml:"dsn"`
}

// CacheConfig toggles the read-through cache in front of content lookups.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// SyncConfig bounds every backend request issued by the sync coordinator.
type SyncConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// Features toggles optional functionality.
type Features struct {
	Metrics bool `yaml:"metrics"`
	Logger  bool `yaml:"logger"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Columns: 24,
		Skins:   []string{"default", "primary", "success", "info", "warning", "danger"},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Sync: SyncConfig{
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if cfg.Columns <= 0 {
		return ErrColumnsInvalid
	}

	provider := normalize(cfg.Storage.Provider)
	if !isSupportedStorage(provider) {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if provider != "memory" && strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.Enabled && provider == "memory" {
		return ErrCacheRequiresSQLStorage
	}
	if cfg.Sync.Timeout < 0 {
		return ErrSyncTimeoutInvalid
	}

	for _, def := range cfg.RowTemplates {
		if err := def.validateRow(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTemplateDefinition, def.Name, err)
		}
	}
	for _, def := range cfg.BlockTemplates {
		if err := def.validateBlock(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTemplateDefinition, def.Name, err)
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func (d TemplateDefinition) validateRow() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Ratios, validation.Required, validation.Each(validation.Min(0.0).Exclusive())),
	)
}

func (d TemplateDefinition) validateBlock() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Slots, validation.Required, validation.Min(1)),
	)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedStorage(provider string) bool {
	switch provider {
	case "memory", "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
