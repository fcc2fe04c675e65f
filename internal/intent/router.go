package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/asdiayu/Bot-flow-cash/internal/completion"
	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
)

// Completer is the slice of the completion gateway the router needs.
type Completer interface {
	Complete(ctx context.Context, primaryPrompt, secondaryPrompt string) (string, error)
}

// Router turns one utterance into a typed Intent via the completion
// gateway. It never returns an error: every failure mode collapses into
// the Unknown intent so callers have a single misunderstood path.
type Router struct {
	gateway Completer
	log     zerolog.Logger
}

// NewRouter creates the intent router.
func NewRouter(gateway Completer, log zerolog.Logger) *Router {
	return &Router{gateway: gateway, log: log}
}

// Route classifies the utterance relative to today.
func (r *Router) Route(ctx context.Context, utterance string, today time.Time) Intent {
	raw, err := r.gateway.Complete(ctx,
		buildClassifyPrompt(utterance, today),
		buildClassifyPromptCompact(utterance, today),
	)
	if err != nil {
		r.log.Warn().Err(err).Msg("classification unavailable")
		return unknown()
	}

	parsed, err := parseIntent(raw)
	if err != nil {
		r.log.Warn().Err(err).Str("raw", raw).Msg("discarding malformed classification")
		return unknown()
	}
	return parsed
}

// wireIntent mirrors the JSON schema the model is instructed to emit.
type wireIntent struct {
	Intent      string           `json:"intent"`
	Transaction *wireTransaction `json:"transaction"`
	Query       *wireQuery       `json:"query"`
}

type wireTransaction struct {
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
}

type wireQuery struct {
	Period string `json:"period"`
	Type   string `json:"type"`
}

// parseIntent validates untrusted model output into a typed Intent.
// JSON shape and field types are checked here; semantic plausibility of
// the classification itself is the model's job.
func parseIntent(raw string) (Intent, error) {
	clean := completion.StripFences(raw)

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()

	var wire wireIntent
	if err := dec.Decode(&wire); err != nil {
		return unknown(), errf("decode intent: %v", err)
	}

	switch Name(wire.Intent) {
	case LogTransaction:
		return parseLogTransaction(wire.Transaction)
	case QuerySummary:
		return parseQuerySummary(wire.Query)
	case QueryBalance:
		return Intent{Name: QueryBalance}, nil
	case RequestReport:
		return parseRequestReport(wire.Query)
	case Greeting:
		return Intent{Name: Greeting}, nil
	case RequestReset:
		return Intent{Name: RequestReset}, nil
	case Unknown:
		return unknown(), nil
	default:
		return unknown(), errf("unknown intent tag %q", wire.Intent)
	}
}

func parseLogTransaction(tx *wireTransaction) (Intent, error) {
	if tx == nil {
		return unknown(), errf("log_transaction without transaction payload")
	}

	kind, err := ledger.ParseKind(tx.Type)
	if err != nil {
		return unknown(), err
	}

	amount, err := decimal.NewFromString(tx.Amount.String())
	if err != nil {
		return unknown(), errf("invalid amount %q", tx.Amount.String())
	}
	if !amount.IsPositive() {
		return unknown(), errf("amount %s is not positive", amount)
	}

	description := strings.TrimSpace(tx.Description)
	if description == "" {
		return unknown(), errf("empty description")
	}

	category := strings.TrimSpace(tx.Category)
	if category == "" {
		category = ledger.DefaultCategory
	}

	return Intent{
		Name: LogTransaction,
		Transaction: &TransactionPayload{
			Kind:        kind,
			Amount:      amount,
			Description: description,
			Category:    category,
		},
	}, nil
}

func parseQuerySummary(q *wireQuery) (Intent, error) {
	if q == nil {
		return unknown(), errf("query_summary without query payload")
	}

	period, err := ledger.ParsePeriod(q.Period)
	if err != nil {
		return unknown(), err
	}

	var filter ledger.Kind
	switch q.Type {
	case "", "all":
		filter = ""
	case "income":
		filter = ledger.KindIncome
	case "expense":
		filter = ledger.KindExpense
	default:
		return unknown(), errf("invalid kind filter %q", q.Type)
	}

	return Intent{
		Name:    QuerySummary,
		Summary: &SummaryQuery{Period: period, KindFilter: filter},
	}, nil
}

func parseRequestReport(q *wireQuery) (Intent, error) {
	if q == nil {
		return unknown(), errf("request_financial_report without query payload")
	}

	period, err := ledger.ParsePeriod(q.Period)
	if err != nil {
		return unknown(), err
	}
	if period != ledger.PeriodThisMonth && period != ledger.PeriodLastMonth {
		return unknown(), errf("report period %q is not monthly", q.Period)
	}

	return Intent{
		Name:   RequestReport,
		Report: &ReportQuery{Period: period},
	}, nil
}
