package classfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/incc/internal/core/ports"
)

// NodeID is the unique identifier for the class file extractor Graft node.
const NodeID graft.ID = "adapter.classfile"

func init() {
	graft.Register(graft.Node[ports.DependencyExtractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DependencyExtractor, error) {
			extractor, err := NewExtractor(DefaultCacheSize)
			if err != nil {
				return nil, err
			}
			return extractor, nil
		},
	})
}
