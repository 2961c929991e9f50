package ports

import (
	"context"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// Panel is the surface that driving adapters (HTTP, MCP) operate on.
type Panel interface {
	OpenFile(ctx context.Context, path string) (*domain.Tree, error)
	CloseFile(ctx context.Context) error
	Snapshot() *domain.Session
	Select(ctx context.Context, channelPath string) error
	SetPlot(ctx context.Context, kind domain.PlotKind, enabled bool) error
	ReadChannel(ctx context.Context, channelPath string) ([]float64, error)
}
