package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

const (
	rootModule     = "layout"
	registryModule = "layout.registry"
	treeModule     = "layout.tree"
	syncModule     = "layout.sync"
	storageModule  = "layout.storage"
	commandsModule = "layout.commands"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// QualifyModule places name under the layout namespace. Names that already
// carry it are returned trimmed; an empty name yields the root module.
func QualifyModule(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "" || name == rootModule:
		return rootModule
	case strings.HasPrefix(name, rootModule+"."):
		return name
	default:
		return rootModule + "." + name
	}
}

// RegistryLogger returns the logger namespace used by the variant registries.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// TreeLogger returns the logger namespace used by layout nodes.
func TreeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, treeModule)
}

// SyncLogger returns the logger namespace used by the sync coordinator.
func SyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncModule)
}

// StorageLogger returns the logger namespace used by the storage backend.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// CommandsLogger returns the logger namespace used by edit command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithFields attaches structured fields when the logger supports the optional
// FieldsLogger extension.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	if len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}
	return logger
}

// Ensure returns logger or a no-op logger when nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
