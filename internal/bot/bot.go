package bot

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/asdiayu/Bot-flow-cash/internal/intent"
	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
	"github.com/asdiayu/Bot-flow-cash/internal/report"
)

// Classifier turns one utterance into a typed intent.
type Classifier interface {
	Route(ctx context.Context, utterance string, today time.Time) intent.Intent
}

// Completer is the slice of the completion gateway the edit flow needs.
type Completer interface {
	Complete(ctx context.Context, primaryPrompt, secondaryPrompt string) (string, error)
}

// Reporter synthesizes the monthly financial report.
type Reporter interface {
	Generate(ctx context.Context, period ledger.Period, txs []ledger.Transaction) (*report.Report, error)
}

// Bot is the conversation core: it routes inbound utterances and button
// callbacks to handlers over the ledger store and the completion gateway.
type Bot struct {
	store      ledger.Store
	classifier Classifier
	gateway    Completer
	reporter   Reporter
	messenger  Messenger
	sessions   *sessionStore
	now        func() time.Time
	log        zerolog.Logger
}

// New wires the conversation core.
func New(store ledger.Store, classifier Classifier, gateway Completer, reporter Reporter, messenger Messenger, log zerolog.Logger) *Bot {
	return &Bot{
		store:      store,
		classifier: classifier,
		gateway:    gateway,
		reporter:   reporter,
		messenger:  messenger,
		sessions:   newSessionStore(),
		now:        time.Now,
		log:        log,
	}
}

// HandleMessage processes one free-text utterance from an owner. An owner
// with an open edit session gets the text interpreted as a correction;
// otherwise the utterance is classified and dispatched.
func (b *Bot) HandleMessage(ctx context.Context, ownerID, text string) {
	if session, ok := b.sessions.Get(ownerID); ok {
		b.handleCorrection(ctx, session, text)
		return
	}

	in := b.classifier.Route(ctx, text, b.now())
	b.log.Info().
		Str("owner_id", ownerID).
		Str("intent", string(in.Name)).
		Msg("utterance classified")

	switch in.Name {
	case intent.LogTransaction:
		b.handleLogTransaction(ctx, ownerID, in.Transaction)
	case intent.QuerySummary:
		b.handleSummary(ctx, ownerID, in.Summary)
	case intent.QueryBalance:
		b.handleBalance(ctx, ownerID)
	case intent.RequestReport:
		b.handleReport(ctx, ownerID, in.Report)
	case intent.Greeting:
		b.send(ctx, ownerID, replyGreeting)
	case intent.RequestReset:
		b.handleResetRequest(ctx, ownerID)
	default:
		b.send(ctx, ownerID, replyMisunderstood)
	}
}

func (b *Bot) handleLogTransaction(ctx context.Context, ownerID string, payload *intent.TransactionPayload) {
	if payload == nil {
		b.send(ctx, ownerID, replyInvalidPayload)
		return
	}

	tx := &ledger.Transaction{
		OwnerID:     ownerID,
		Kind:        payload.Kind,
		Amount:      payload.Amount,
		Description: payload.Description,
		Category:    payload.Category,
	}
	if err := tx.Validate(); err != nil {
		b.log.Warn().Err(err).Str("owner_id", ownerID).Msg("rejected transaction payload")
		b.send(ctx, ownerID, replyInvalidPayload)
		return
	}

	id, err := b.store.Insert(ctx, tx)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("insert failed")
		b.send(ctx, ownerID, replyStoreFailure)
		return
	}

	// The record is saved at this point; a failed balance readback only
	// costs the confirmation its saldo line.
	text := confirmationText(tx)
	balance, err := b.store.Balance(ctx, ownerID)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("balance failed after insert")
	} else {
		text = confirmationTextWithBalance(tx, balance)
	}

	if _, err := b.messenger.SendWithButtons(ctx, ownerID, text, confirmationButtons(id)); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("send confirmation failed")
	}
}

func (b *Bot) handleSummary(ctx context.Context, ownerID string, query *intent.SummaryQuery) {
	start, end, err := query.Period.Resolve(b.now())
	if err != nil {
		b.send(ctx, ownerID, replyMisunderstood)
		return
	}

	txs, err := b.store.SelectByOwnerAndRange(ctx, ownerID, start, end, query.KindFilter)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("summary select failed")
		b.send(ctx, ownerID, replyFetchFailure)
		return
	}

	b.send(ctx, ownerID, summaryText(query.Period, query.KindFilter, txs))
}

func (b *Bot) handleBalance(ctx context.Context, ownerID string) {
	balance, err := b.store.Balance(ctx, ownerID)
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("balance failed")
		b.send(ctx, ownerID, replyFetchFailure)
		return
	}
	b.send(ctx, ownerID, balanceText(balance))
}

func (b *Bot) handleReport(ctx context.Context, ownerID string, query *intent.ReportQuery) {
	start, end, err := query.Period.Resolve(b.now())
	if err != nil {
		b.send(ctx, ownerID, replyMisunderstood)
		return
	}

	txs, err := b.store.SelectByOwnerAndRange(ctx, ownerID, start, end, "")
	if err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("report select failed")
		b.send(ctx, ownerID, replyFetchFailure)
		return
	}

	rep, err := b.reporter.Generate(ctx, query.Period, txs)
	switch {
	case errors.Is(err, report.ErrNoData):
		b.send(ctx, ownerID, replyNoReportData)
		return
	case err != nil:
		b.send(ctx, ownerID, replyReportUnavailable)
		return
	}

	b.send(ctx, ownerID, reportText(rep.AnalysisText, rep.Tips))

	if rep.Chart != nil {
		if photos, ok := b.messenger.(PhotoSender); ok {
			if err := photos.SendPhoto(ctx, ownerID, rep.Chart, "Grafik pengeluaran "+query.Period.Label()); err != nil {
				b.log.Warn().Err(err).Str("owner_id", ownerID).Msg("send chart failed")
			}
		}
	}
}

// handleResetRequest never deletes anything; it only asks for confirmation.
func (b *Bot) handleResetRequest(ctx context.Context, ownerID string) {
	if _, err := b.messenger.SendWithButtons(ctx, ownerID, replyResetConfirm, resetConfirmButtons()); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("send reset confirmation failed")
	}
}

func (b *Bot) send(ctx context.Context, ownerID, text string) {
	if _, err := b.messenger.Send(ctx, ownerID, text); err != nil {
		b.log.Error().Err(err).Str("owner_id", ownerID).Msg("send failed")
	}
}
