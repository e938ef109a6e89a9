package pdf

import (
	"bytes"
	"context"
	"io"

	esgdomain "github.com/utkalworks/floorops/internal/esg/domain"
)

// ReportData carries everything the period report renders.
type ReportData struct {
	Overview *esgdomain.OverviewResponse
	Factors  *esgdomain.FactorSummaryResponse
}

type Provider interface {
	GenerateESGReport(ctx context.Context, data ReportData) (io.Reader, error)
}

// NoOpProvider renders nothing but still hands callers a readable
// zero-length document.
type NoOpProvider struct{}

func (p *NoOpProvider) GenerateESGReport(ctx context.Context, data ReportData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}
