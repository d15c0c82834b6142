// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReports prints a report list using the configured output format.
func (ow *OutWriter) WriteReports(views []schema.ReportView, cfg *contract.Config) error {
	return PrintReports(views, cfg)
}

// WriteSummary prints the dashboard aggregates using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.ReportSummary, cfg *contract.Config) error {
	return PrintSummary(summary, cfg)
}

// WriteTrend prints the global score series using the configured output format.
func (ow *OutWriter) WriteTrend(points []schema.TrendPoint, cfg *contract.Config) error {
	return PrintTrend(points, cfg)
}

// WriteImages prints the image catalogue of a group using the configured output format.
func (ow *OutWriter) WriteImages(images []schema.Image, cfg *contract.Config) error {
	return PrintImages(images, cfg)
}
