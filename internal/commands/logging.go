package commands

import (
	"strings"

	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

// CommandLogger returns the logger for a group of edit commands.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	name := strings.TrimSpace(group)
	if name == "" {
		name = "edit"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":     "command",
		"command_group": name,
	})
}
