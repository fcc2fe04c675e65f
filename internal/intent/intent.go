package intent

import (
	"github.com/shopspring/decimal"

	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
)

// Name is the closed set of intents the classifier may produce.
type Name string

const (
	LogTransaction Name = "log_transaction"
	QuerySummary   Name = "query_summary"
	QueryBalance   Name = "query_balance"
	RequestReport  Name = "request_financial_report"
	Greeting       Name = "greeting"
	RequestReset   Name = "request_reset"
	Unknown        Name = "unknown"
)

// Intent is the typed result of classifying one utterance. Exactly one of
// the payload pointers is set, matching Name. It lives only for the
// duration of one message's processing.
type Intent struct {
	Name        Name
	Transaction *TransactionPayload
	Summary     *SummaryQuery
	Report      *ReportQuery
}

// TransactionPayload carries the extracted fields of a log_transaction
// intent, already validated against the domain invariants.
type TransactionPayload struct {
	Kind        ledger.Kind
	Amount      decimal.Decimal
	Description string
	Category    string
}

// SummaryQuery carries a validated query_summary payload. An empty
// KindFilter means both kinds.
type SummaryQuery struct {
	Period     ledger.Period
	KindFilter ledger.Kind
}

// ReportQuery carries a validated request_financial_report payload.
// Only monthly periods are allowed.
type ReportQuery struct {
	Period ledger.Period
}

func unknown() Intent {
	return Intent{Name: Unknown}
}
