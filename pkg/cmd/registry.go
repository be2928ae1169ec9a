// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/dukex/timely/pkg/registry"
)

// NewRegistry returns a registry holding the built-in node types.
func NewRegistry(log *slog.Logger) *registry.Registry {
	return registry.Default(log)
}
