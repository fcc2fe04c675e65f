package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
)

// Callback action tags carried in button data as "action:target".
const (
	actionEdit          = "edit"
	actionDelete        = "delete"
	actionConfirmDelete = "confirm_delete"
	actionCancelDelete  = "cancel_delete"
	actionConfirmReset  = "confirm_reset"
	actionCancelEdit    = "cancel_edit"
)

// HandleCallback processes one button activation. messageID identifies the
// message carrying the button.
func (b *Bot) HandleCallback(ctx context.Context, ownerID, messageID, data string) {
	action, target, ok := strings.Cut(data, ":")
	if !ok {
		b.log.Warn().Str("owner_id", ownerID).Str("data", data).Msg("malformed callback data")
		return
	}

	b.log.Info().
		Str("owner_id", ownerID).
		Str("action", action).
		Msg("callback activated")

	switch action {
	case actionEdit:
		b.startEdit(ctx, ownerID, messageID, target)
	case actionDelete:
		b.askDeleteConfirmation(ctx, ownerID, messageID, target)
	case actionConfirmDelete:
		b.confirmDelete(ctx, ownerID, messageID, target)
	case actionCancelDelete:
		b.cancelDelete(ctx, ownerID, messageID, target)
	case actionConfirmReset:
		b.confirmReset(ctx, ownerID, messageID, target)
	case actionCancelEdit:
		b.cancelEdit(ctx, ownerID)
	default:
		b.log.Warn().Str("owner_id", ownerID).Str("action", action).Msg("unknown callback action")
	}
}

// askDeleteConfirmation swaps the message's affordances for a confirm and
// cancel pair. Nothing is removed yet.
func (b *Bot) askDeleteConfirmation(ctx context.Context, ownerID, messageID, txID string) {
	tx, err := b.store.SelectByID(ctx, txID, ownerID)
	if errors.Is(err, ledger.ErrNotFound) {
		b.send(ctx, ownerID, replyStale)
		return
	}
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("delete lookup failed")
		b.send(ctx, ownerID, replyFetchFailure)
		return
	}

	text := "Hapus catatan ini?\n\n" + tx.Description + " (" + formatRupiah(tx.Amount) + ")"
	if err := b.messenger.EditMessage(ctx, ownerID, messageID, text, deleteConfirmButtons(txID)); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit message failed")
	}
}

func (b *Bot) confirmDelete(ctx context.Context, ownerID, messageID, txID string) {
	tx, err := b.store.Delete(ctx, txID, ownerID)
	if errors.Is(err, ledger.ErrNotFound) {
		if err := b.messenger.EditMessage(ctx, ownerID, messageID, replyStale, nil); err != nil {
			b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit message failed")
		}
		return
	}
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("delete failed")
		b.send(ctx, ownerID, replyStoreFailure)
		return
	}

	text := "🗑 Dihapus: " + tx.Description + " (" + formatRupiah(tx.Amount) + ")"
	balance, err := b.store.Balance(ctx, ownerID)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("balance failed after delete")
	} else {
		text = deletedText(tx, balance)
	}

	if err := b.messenger.EditMessage(ctx, ownerID, messageID, text, nil); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit message failed")
	}
}

// cancelDelete restores the confirmation view from a fresh store read, not
// from any cached state.
func (b *Bot) cancelDelete(ctx context.Context, ownerID, messageID, txID string) {
	tx, err := b.store.SelectByID(ctx, txID, ownerID)
	if errors.Is(err, ledger.ErrNotFound) {
		if err := b.messenger.EditMessage(ctx, ownerID, messageID, replyStale, nil); err != nil {
			b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit message failed")
		}
		return
	}
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("cancel delete lookup failed")
		b.send(ctx, ownerID, replyFetchFailure)
		return
	}

	text := confirmationText(tx)
	balance, err := b.store.Balance(ctx, ownerID)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("balance failed on cancel delete")
	} else {
		text = confirmationTextWithBalance(tx, balance)
	}

	if err := b.messenger.EditMessage(ctx, ownerID, messageID, text, confirmationButtons(txID)); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit message failed")
	}
}

// confirmReset performs the owner-scoped bulk delete, but only on an
// explicit yes.
func (b *Bot) confirmReset(ctx context.Context, ownerID, messageID, choice string) {
	if choice != "yes" {
		if err := b.messenger.EditMessage(ctx, ownerID, messageID, replyResetCancelled, nil); err != nil {
			b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit message failed")
		}
		return
	}

	removed, err := b.store.DeleteAll(ctx, ownerID)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("reset failed")
		b.send(ctx, ownerID, replyStoreFailure)
		return
	}

	b.log.Info().Str("owner_id", ownerID).Int64("removed", removed).Msg("ledger reset")
	if err := b.messenger.EditMessage(ctx, ownerID, messageID, resetDoneText(removed), nil); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("edit message failed")
	}
}
