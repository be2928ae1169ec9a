package registry

import (
	"log/slog"

	"github.com/dukex/timely/pkg/nodes/condition"
	"github.com/dukex/timely/pkg/nodes/push"
	"github.com/dukex/timely/pkg/nodes/trigger"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes() {
	r.RegisterNode(trigger.NewNowNodeFactory())
	r.RegisterNode(push.NewMobilePushNodeFactory())
	r.RegisterNode(condition.NewTokensNodeFactory())
}

// Default returns a registry with the built-in node types.
func Default(log *slog.Logger) *Registry {
	r := NewRegistry(log)
	r.RegisterDefaultNodes()

	return r
}
