package state

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/incc/internal/core/ports"
)

// NodeID is the unique identifier for the state store opener Graft node.
const NodeID graft.ID = "adapter.state"

func init() {
	graft.Register(graft.Node[ports.StateStoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StateStoreOpener, error) {
			return NewOpener(), nil
		},
	})
}
