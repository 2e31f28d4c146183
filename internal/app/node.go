package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/incc/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/adapters/report"             //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/adapters/state"              //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/incc/internal/core/ports"
	"go.trai.ch/incc/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ListerNodeID,
			state.NodeID,
			shell.NodeID,
			watcher.NodeID,
			scheduler.NodeID,
			report.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	lister, err := graft.Dep[ports.SourceLister](ctx)
	if err != nil {
		return nil, err
	}

	opener, err := graft.Dep[ports.StateStoreOpener](ctx)
	if err != nil {
		return nil, err
	}

	compilers, err := graft.Dep[ports.CompilerFactory](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	reporter, err := graft.Dep[ports.Reporter](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, lister, opener, compilers, watchers, sched, reporter, log, telemetry), nil
}
