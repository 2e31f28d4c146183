package ports

import (
	"context"

	"go.trai.ch/incc/internal/core/domain"
)

// BuildStateStore is the durable record of the previous build's graph for one artifact root.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildStateStore interface {
	// LoadGraph returns the last committed graph.
	// Returns nil, nil if no graph was ever committed.
	LoadGraph(ctx context.Context) (*domain.BuildGraph, error)

	// Begin starts a transaction and takes the writer lock of the artifact root.
	Begin(ctx context.Context) error

	// ReplaceGraph stages the graph that Commit will publish.
	ReplaceGraph(graph *domain.BuildGraph) error

	// Commit atomically publishes the staged graph and releases the lock.
	Commit() error

	// Rollback discards the staged graph and releases the lock.
	// It is a no-op without an active transaction.
	Rollback() error

	// Close releases the store's resources, rolling back an active transaction.
	Close() error
}

// StateStoreOpener opens the BuildStateStore of an artifact root.
type StateStoreOpener interface {
	Open(artifactRoot string, backend domain.StateBackend) (BuildStateStore, error)

	// Lock takes the writer lock of the artifact root outside of a transaction
	// and returns the function that releases it.
	// It fails with domain.ErrStoreLocked while a build holds the lock.
	Lock(artifactRoot string) (unlock func() error, err error)
}
