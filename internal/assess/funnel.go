package assess

import (
	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/extract"
	"github.com/maru-digital/assess-cli/internal/funnel"
	"github.com/maru-digital/assess-cli/internal/model"
)

// FunnelAnalyzer runs the pipeline-leak assessment over a CRM CSV export.
type FunnelAnalyzer struct {
	analyzer *funnel.Analyzer
}

// NewFunnelAnalyzer builds a FunnelAnalyzer.
func NewFunnelAnalyzer(cfg config.FunnelConfig) *FunnelAnalyzer {
	return &FunnelAnalyzer{analyzer: funnel.NewAnalyzer(cfg)}
}

// Analyze parses csvText and derives the leak report. A CSV with no usable
// rows is caller input the pipeline cannot degrade around, so the parse
// error propagates.
func (f *FunnelAnalyzer) Analyze(csvText string) (*model.FunnelReport, error) {
	rows, err := extract.ParsePipelineCSV(csvText)
	if err != nil {
		return nil, err
	}
	report := f.analyzer.Analyze(rows)
	return &report, nil
}
