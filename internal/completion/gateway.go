package completion

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Gateway composes a primary and an optional secondary provider into a
// single best-effort completion call. Each provider is tried at most once;
// there is no backoff and no further retrying.
type Gateway struct {
	primary   Provider
	secondary Provider
	log       zerolog.Logger
}

// NewGateway builds the two-tier gateway. secondary may be nil.
func NewGateway(primary, secondary Provider, log zerolog.Logger) *Gateway {
	return &Gateway{primary: primary, secondary: secondary, log: log}
}

// Complete sends primaryPrompt to the primary provider. If that fails or
// returns empty text, secondaryPrompt goes to the secondary provider. When
// both prompts are the same, pass the same string twice.
func (g *Gateway) Complete(ctx context.Context, primaryPrompt, secondaryPrompt string) (string, error) {
	text, err := g.primary.Complete(ctx, primaryPrompt)
	if err == nil && strings.TrimSpace(text) != "" {
		g.log.Debug().Str("provider", g.primary.Name()).Msg("completion succeeded")
		return text, nil
	}

	g.log.Warn().
		Err(err).
		Str("provider", g.primary.Name()).
		Msg("primary completion failed")

	if g.secondary == nil {
		return "", ErrUnavailable
	}

	text, err = g.secondary.Complete(ctx, secondaryPrompt)
	if err != nil || strings.TrimSpace(text) == "" {
		g.log.Error().
			Err(err).
			Str("provider", g.secondary.Name()).
			Msg("secondary completion failed")
		return "", ErrUnavailable
	}

	g.log.Debug().Str("provider", g.secondary.Name()).Msg("completion succeeded on failover")
	return text, nil
}
