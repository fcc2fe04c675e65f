package intent

import (
	"fmt"
	"strings"
	"time"
)

// buildClassifyPrompt constructs the classification prompt for the primary
// provider. The ambiguity policy (expense keywords outrank income, bare
// amounts default to expense) is a hint to the model, not a local rule.
func buildClassifyPrompt(utterance string, today time.Time) string {
	var b strings.Builder

	b.WriteString("You are the natural-language front end of a personal finance assistant.\n")
	b.WriteString("Classify the user's message into exactly one intent and extract its payload.\n\n")
	fmt.Fprintf(&b, "Today's date is %s.\n\n", today.Format("2006-01-02"))

	b.WriteString("Respond with exactly ONE JSON object, no prose, no Markdown, matching one of:\n")
	b.WriteString(`{"intent":"log_transaction","transaction":{"type":"income"|"expense","amount":number,"description":string,"category":string}}` + "\n")
	b.WriteString(`{"intent":"query_summary","query":{"period":"today"|"yesterday"|"this_month"|"last_month","type":"all"|"income"|"expense"}}` + "\n")
	b.WriteString(`{"intent":"query_balance"}` + "\n")
	b.WriteString(`{"intent":"request_financial_report","query":{"period":"this_month"|"last_month"}}` + "\n")
	b.WriteString(`{"intent":"greeting"}` + "\n")
	b.WriteString(`{"intent":"request_reset"}` + "\n")
	b.WriteString(`{"intent":"unknown"}` + "\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- \"amount\" must be a positive number. Interpret Indonesian shorthand: \"5jt\" = 5000000, \"25rb\" or \"25k\" = 25000, \"1.500.000\" = 1500000.\n")
	b.WriteString("- Expense keywords (beli, bayar, belanja, spent, paid) outrank income keywords (gaji, dapat, bonus).\n")
	b.WriteString("- A bare amount with a description and no income cue is an expense.\n")
	b.WriteString("- Pick a short category such as Makanan, Transportasi, Gaji, Hiburan, Tagihan; use \"Other\" when unsure.\n")
	b.WriteString("- Deleting or clearing all records is request_reset.\n")
	b.WriteString("- Anything that is not about personal finance is unknown.\n\n")

	b.WriteString("Examples:\n")
	b.WriteString("- \"beli kopi 25000\" -> {\"intent\":\"log_transaction\",\"transaction\":{\"type\":\"expense\",\"amount\":25000,\"description\":\"beli kopi\",\"category\":\"Makanan\"}}\n")
	b.WriteString("- \"dapat gaji 5jt\" -> {\"intent\":\"log_transaction\",\"transaction\":{\"type\":\"income\",\"amount\":5000000,\"description\":\"dapat gaji\",\"category\":\"Gaji\"}}\n")
	b.WriteString("- \"pengeluaran bulan ini\" -> {\"intent\":\"query_summary\",\"query\":{\"period\":\"this_month\",\"type\":\"expense\"}}\n")
	b.WriteString("- \"saldo saya berapa\" -> {\"intent\":\"query_balance\"}\n")
	b.WriteString("- \"laporan bulan lalu\" -> {\"intent\":\"request_financial_report\",\"query\":{\"period\":\"last_month\"}}\n")
	b.WriteString("- \"halo\" -> {\"intent\":\"greeting\"}\n")
	b.WriteString("- \"hapus semua data\" -> {\"intent\":\"request_reset\"}\n\n")

	fmt.Fprintf(&b, "User message: %q\n", utterance)

	return b.String()
}

// buildClassifyPromptCompact is the equivalent prompt sent to the secondary
// provider on failover. Same schema, terser phrasing.
func buildClassifyPromptCompact(utterance string, today time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Classify this personal-finance message (today: %s) into one JSON object.\n", today.Format("2006-01-02"))
	b.WriteString("Allowed intents: log_transaction (payload \"transaction\": type income|expense, amount > 0, description, category), ")
	b.WriteString("query_summary (payload \"query\": period today|yesterday|this_month|last_month, type all|income|expense), ")
	b.WriteString("query_balance, request_financial_report (payload \"query\": period this_month|last_month), ")
	b.WriteString("greeting, request_reset, unknown.\n")
	b.WriteString("Bare amounts with no income cue are expenses. Output only the JSON object.\n")
	fmt.Fprintf(&b, "Message: %q\n", utterance)

	return b.String()
}
