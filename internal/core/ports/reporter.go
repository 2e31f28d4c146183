package ports

import "go.trai.ch/incc/internal/core/domain"

// Reporter renders the per-unit outcome of a build.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	Report(report *domain.BuildReport) error
}
