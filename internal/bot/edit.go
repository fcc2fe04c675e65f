package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/asdiayu/Bot-flow-cash/internal/completion"
	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
)

// The edit flow is a two-state machine per owner: no session (idle) and an
// open EditSession (awaiting correction). The session store holds at most
// one session per owner; starting a second edit replaces the first.

// startEdit opens an edit session for transaction txID. The confirmation
// message carrying the edit button is remembered so the applied correction
// can rewrite it in place.
func (b *Bot) startEdit(ctx context.Context, ownerID, messageID, txID string) {
	tx, err := b.store.SelectByID(ctx, txID, ownerID)
	if errors.Is(err, ledger.ErrNotFound) {
		b.send(ctx, ownerID, replyStale)
		return
	}
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit lookup failed")
		b.send(ctx, ownerID, replyFetchFailure)
		return
	}

	b.sessions.Put(EditSession{
		TransactionID:   txID,
		OwnerID:         ownerID,
		OrigDescription: tx.Description,
		OrigAmount:      tx.Amount,
		MessageID:       messageID,
	})

	text := fmt.Sprintf("✏️ Mengedit: %s (%s)\n\n%s",
		tx.Description, formatRupiah(tx.Amount), replyAskCorrection)
	if _, err := b.messenger.SendWithButtons(ctx, ownerID, text, cancelEditButtons()); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("send edit prompt failed")
	}
}

// cancelEdit clears the session without touching the store.
func (b *Bot) cancelEdit(ctx context.Context, ownerID string) {
	b.sessions.Clear(ownerID)
	b.send(ctx, ownerID, replyEditCancelled)
}

// handleCorrection applies one free-text correction to the session's
// transaction. An unparseable correction keeps the session open; gateway
// and store failures close it so the owner is never stranded mid-edit.
func (b *Bot) handleCorrection(ctx context.Context, session EditSession, text string) {
	ownerID := session.OwnerID

	raw, err := b.gateway.Complete(ctx,
		buildCorrectionPrompt(session, text),
		buildCorrectionPrompt(session, text),
	)
	if err != nil {
		b.sessions.Clear(ownerID)
		b.send(ctx, ownerID, replyUnavailable)
		return
	}

	correction, err := parseCorrection(raw)
	if err != nil {
		// Stay in the session and ask again.
		b.log.Warn().Err(err).Str("owner_id", ownerID).Msg("unusable correction output")
		b.send(ctx, ownerID, replyCorrectionRetry)
		return
	}

	// Kind and category are never subject to AI correction; read them
	// back from the store.
	tx, err := b.store.SelectByID(ctx, session.TransactionID, ownerID)
	if errors.Is(err, ledger.ErrNotFound) {
		b.sessions.Clear(ownerID)
		b.send(ctx, ownerID, replyStale)
		return
	}
	if err != nil {
		b.sessions.Clear(ownerID)
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("correction lookup failed")
		b.send(ctx, ownerID, replyFetchFailure)
		return
	}

	fields := ledger.UpdateFields{
		Amount:      correction.Amount,
		Description: correction.Description,
		Category:    tx.Category,
	}
	if err := b.store.Update(ctx, session.TransactionID, ownerID, fields); err != nil {
		b.sessions.Clear(ownerID)
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("correction update failed")
		b.send(ctx, ownerID, replyStoreFailure)
		return
	}

	updated := *tx
	updated.Amount = correction.Amount
	updated.Description = correction.Description

	// The update is saved at this point; a failed balance readback only
	// costs the rewritten confirmation its saldo line.
	text = confirmationText(&updated)
	balance, err := b.store.Balance(ctx, ownerID)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("balance failed after correction")
	} else {
		text = confirmationTextWithBalance(&updated, balance)
	}

	// Rewrite the original confirmation in place rather than sending a
	// fresh message.
	if err := b.messenger.EditMessage(ctx, ownerID, session.MessageID,
		text, confirmationButtons(session.TransactionID)); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("rewrite confirmation failed")
	}

	b.sessions.Clear(ownerID)
}

// correction is the validated {description, amount} pair from the model.
type correction struct {
	Description string
	Amount      decimal.Decimal
}

// buildCorrectionPrompt embeds the original record so the model can keep
// whatever part the user did not mention.
func buildCorrectionPrompt(session EditSession, text string) string {
	var b strings.Builder

	b.WriteString("A user is correcting one recorded finance transaction.\n\n")
	fmt.Fprintf(&b, "Original description: %q\nOriginal amount: %s\n", session.OrigDescription, session.OrigAmount.StringFixed(0))
	fmt.Fprintf(&b, "Correction message: %q\n\n", text)
	b.WriteString("Respond with exactly ONE JSON object, no prose, no Markdown:\n")
	b.WriteString(`{"description": string, "amount": number}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- If the correction is only a new number, keep the original description and replace the amount.\n")
	b.WriteString("- If the correction contains no number, keep the original amount and replace the description.\n")
	b.WriteString("- If the correction is a full sentence with both, replace both.\n")
	b.WriteString("- Interpret Indonesian shorthand amounts (5jt = 5000000, 25rb = 25000).\n")
	b.WriteString("- amount must be a positive number; description must not be empty.\n")

	return b.String()
}

// parseCorrection validates untrusted correction output.
func parseCorrection(raw string) (correction, error) {
	clean := completion.StripFences(raw)

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()

	var wire struct {
		Description string      `json:"description"`
		Amount      json.Number `json:"amount"`
	}
	if err := dec.Decode(&wire); err != nil {
		return correction{}, fmt.Errorf("bot: decode correction: %w", err)
	}

	amount, err := decimal.NewFromString(wire.Amount.String())
	if err != nil {
		return correction{}, fmt.Errorf("bot: invalid correction amount %q", wire.Amount.String())
	}
	if !amount.IsPositive() {
		return correction{}, fmt.Errorf("bot: correction amount %s is not positive", amount)
	}

	description := strings.TrimSpace(wire.Description)
	if description == "" {
		return correction{}, fmt.Errorf("bot: empty correction description")
	}

	return correction{Description: description, Amount: amount}, nil
}
