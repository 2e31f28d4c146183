package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/incc/internal/adapters/classfile"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/incc/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/incc/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/incc/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/incc/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.HasherNodeID,
			classfile.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			hasher, err := graft.Dep[ports.ContentHasher](ctx)
			if err != nil {
				return nil, err
			}

			extractor, err := graft.Dep[ports.DependencyExtractor](ctx)
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

			return NewScheduler(hasher, extractor, log, telemetry), nil
		},
	})
}
