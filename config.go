package cmslayout

import "github.com/goliatone/go-cms-layout/internal/runtimeconfig"

var (
	ErrColumnsInvalid          = runtimeconfig.ErrColumnsInvalid
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheRequiresSQLStorage = runtimeconfig.ErrCacheRequiresSQLStorage
	ErrTemplateDefinition      = runtimeconfig.ErrTemplateDefinition
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrSyncTimeoutInvalid      = runtimeconfig.ErrSyncTimeoutInvalid
)

type (
	Config             = runtimeconfig.Config
	TemplateDefinition = runtimeconfig.TemplateDefinition
	LibraryConfig      = runtimeconfig.LibraryConfig
	MarkdownConfig     = runtimeconfig.MarkdownConfig
	StorageConfig      = runtimeconfig.StorageConfig
	CacheConfig        = runtimeconfig.CacheConfig
	SyncConfig         = runtimeconfig.SyncConfig
	LoggingConfig      = runtimeconfig.LoggingConfig
	Features           = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file, loading .env files first.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
