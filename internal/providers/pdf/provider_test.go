package pdf

import (
	"context"
	"io"
	"testing"
)

func TestNoOpProviderReturnsReadableReport(t *testing.T) {
	p := &NoOpProvider{}

	r, err := p.GenerateESGReport(context.Background(), ReportData{})
	if err != nil {
		t.Fatalf("GenerateESGReport: %v", err)
	}
	if r == nil {
		t.Fatal("reader is nil")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(body) != 0 {
		t.Fatalf("expected empty report, got %d bytes", len(body))
	}
}
