package handlers

import (
	"context"

	"github.com/datacapflow/core/internal/observability"
	"github.com/datacapflow/core/internal/parser"
	"github.com/datacapflow/core/internal/upstream"
	"go.uber.org/zap"
)

// Source supplies upstream payloads. *upstream.Client implements it.
type Source interface {
	FetchAllocators(ctx context.Context) ([]byte, error)
	FetchSnapshot(ctx context.Context) (*upstream.Snapshot, error)
}

type Deps struct {
	Source         Source
	Graph          parser.GraphOptions
	MaxAuditRounds int
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
