// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/incc/internal/adapters/classfile"
	_ "go.trai.ch/incc/internal/adapters/config"
	_ "go.trai.ch/incc/internal/adapters/fs"
	_ "go.trai.ch/incc/internal/adapters/logger"
	_ "go.trai.ch/incc/internal/adapters/report"
	_ "go.trai.ch/incc/internal/adapters/shell"
	_ "go.trai.ch/incc/internal/adapters/state"
	_ "go.trai.ch/incc/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/incc/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/incc/internal/app"
	_ "go.trai.ch/incc/internal/engine/scheduler"
)
