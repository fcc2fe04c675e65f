package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/asdiayu/Bot-flow-cash/internal/completion"
	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
)

// Completer is the slice of the completion gateway the synthesizer needs.
type Completer interface {
	Complete(ctx context.Context, primaryPrompt, secondaryPrompt string) (string, error)
}

// ChartRenderer turns category aggregates into a chart image. The concrete
// renderer is an external collaborator.
type ChartRenderer interface {
	Render(labels []string, values []float64) ([]byte, error)
}

// Report is the synthesized monthly analysis.
type Report struct {
	AnalysisText string
	Tips         []string
	ChartLabels  []string
	ChartValues  []float64
	Chart        []byte // PNG bytes, nil when no renderer is configured
}

// Synthesizer aggregates a period's transactions, asks the model for a
// neutral analysis plus chart aggregates, and renders the chart.
type Synthesizer struct {
	gateway  Completer
	renderer ChartRenderer
	log      zerolog.Logger
}

// NewSynthesizer creates the report synthesizer. renderer may be nil.
func NewSynthesizer(gateway Completer, renderer ChartRenderer, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{gateway: gateway, renderer: renderer, log: log}
}

// ErrNoData is returned when the period holds no transactions.
var ErrNoData = fmt.Errorf("report: no transactions in period")

// ErrUnavailable is returned when the model output is missing or does not
// match the report schema.
var ErrUnavailable = fmt.Errorf("report: analysis unavailable")

// Generate builds the report for one owner's transactions in a period.
func (s *Synthesizer) Generate(ctx context.Context, period ledger.Period, txs []ledger.Transaction) (*Report, error) {
	if len(txs) == 0 {
		return nil, ErrNoData
	}

	prompt := buildReportPrompt(period, txs)
	raw, err := s.gateway.Complete(ctx, prompt, prompt)
	if err != nil {
		s.log.Warn().Err(err).Msg("report completion failed")
		return nil, ErrUnavailable
	}

	rep, err := parseReport(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("raw", raw).Msg("discarding malformed report output")
		return nil, ErrUnavailable
	}

	if s.renderer != nil && len(rep.ChartLabels) > 0 {
		chart, err := s.renderer.Render(rep.ChartLabels, rep.ChartValues)
		if err != nil {
			// The textual analysis is still worth sending.
			s.log.Warn().Err(err).Msg("chart rendering failed")
		} else {
			rep.Chart = chart
		}
	}

	return rep, nil
}

// buildReportPrompt serializes the period's transactions into the analysis
// request. Totals are precomputed locally so the model cannot get the
// arithmetic wrong.
func buildReportPrompt(period ledger.Period, txs []ledger.Transaction) string {
	income := decimal.Zero
	expense := decimal.Zero
	var lines strings.Builder
	for _, tx := range txs {
		if tx.Kind == ledger.KindIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
		fmt.Fprintf(&lines, "- %s | %s | %s | %s | %s\n",
			tx.CreatedAt.Format("2006-01-02"), tx.Kind, tx.Amount.StringFixed(0), tx.Category, tx.Description)
	}

	var b strings.Builder
	b.WriteString("You are a financial analyst for a personal expense tracker. Analyze the transactions below.\n\n")
	fmt.Fprintf(&b, "Period: %s\nTotal income: %s\nTotal expense: %s\nNet: %s\n\nTransactions:\n%s\n",
		period.Label(), income.StringFixed(0), expense.StringFixed(0), income.Sub(expense).StringFixed(0), lines.String())

	b.WriteString("Respond with exactly ONE JSON object, no prose, no Markdown:\n")
	b.WriteString(`{"analysis_text": string, "actionable_tips": [string], "chart_data": {"labels": [string], "values": [number]}}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- analysis_text: totals, net, top expense categories, and 1-2 neutral observations in Indonesian. Observations only, never financial advice.\n")
	b.WriteString("- actionable_tips: at most 2 short neutral observations, may be empty.\n")
	b.WriteString("- chart_data: expense totals aggregated by category, top 4 categories plus a final \"Other\" bucket for the rest. labels and values must have the same length.\n")

	return b.String()
}

// wireReport mirrors the report schema emitted by the model.
type wireReport struct {
	AnalysisText string   `json:"analysis_text"`
	Tips         []string `json:"actionable_tips"`
	ChartData    *struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	} `json:"chart_data"`
}

func parseReport(raw string) (*Report, error) {
	clean := completion.StripFences(raw)

	var wire wireReport
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return nil, fmt.Errorf("report: decode: %w", err)
	}

	if strings.TrimSpace(wire.AnalysisText) == "" {
		return nil, fmt.Errorf("report: empty analysis_text")
	}

	rep := &Report{
		AnalysisText: wire.AnalysisText,
		Tips:         wire.Tips,
	}

	if wire.ChartData != nil {
		if len(wire.ChartData.Labels) != len(wire.ChartData.Values) {
			return nil, fmt.Errorf("report: chart_data labels/values length mismatch (%d vs %d)",
				len(wire.ChartData.Labels), len(wire.ChartData.Values))
		}
		for i, v := range wire.ChartData.Values {
			if v < 0 {
				return nil, fmt.Errorf("report: chart_data value %d is negative", i)
			}
		}
		rep.ChartLabels = wire.ChartData.Labels
		rep.ChartValues = wire.ChartData.Values
	}

	return rep, nil
}
