package messaging

import "context"

// Sender delivers one outbound text to a customer over the chat channel.
// The engine never manages the channel's connection or session lifecycle;
// delivery failures surface as models.TransportError.
type Sender interface {
	Send(ctx context.Context, customerID, text string) error
}
