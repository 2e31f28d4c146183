package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/incc/internal/core/ports"
)

// NodeID is the unique identifier for the compiler factory Graft node.
const NodeID graft.ID = "adapter.compiler"

func init() {
	graft.Register(graft.Node[ports.CompilerFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CompilerFactory, error) {
			return NewFactory(), nil
		},
	})
}
