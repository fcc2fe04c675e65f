package completion

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned by a provider when the model answered with
// no usable text.
var ErrEmptyResponse = errors.New("completion: empty response from model")

// ErrUnavailable is returned by the gateway when every provider failed.
var ErrUnavailable = errors.New("completion: all providers unavailable")

// Provider is a single opaque text-completion endpoint.
type Provider interface {
	// Complete sends one prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs.
	Name() string
}
