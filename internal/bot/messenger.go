package bot

import "context"

// Button is a user-actionable control attached to an outbound message.
// Data carries an "action:target" tag echoed back on activation.
type Button struct {
	Label string
	Data  string
}

// Messenger is the chat transport collaborator. Message delivery, inline
// button rendering and voice transcription live behind it.
type Messenger interface {
	// Send delivers a plain text message and returns its message id.
	Send(ctx context.Context, ownerID, text string) (string, error)

	// SendWithButtons delivers a message with attached button rows and
	// returns its message id.
	SendWithButtons(ctx context.Context, ownerID, text string, buttons [][]Button) (string, error)

	// EditMessage rewrites an already delivered message in place.
	// A nil buttons slice removes all affordances.
	EditMessage(ctx context.Context, ownerID, messageID, text string, buttons [][]Button) error
}

// PhotoSender is implemented by transports that can deliver images. The
// bot degrades to text-only reports when the transport cannot.
type PhotoSender interface {
	SendPhoto(ctx context.Context, ownerID string, image []byte, caption string) error
}
