package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service posts run reports to Slack
type Service interface {
	// ResolveChannel returns the ID of a channel given as an ID ("C0123...") or a name
	// ("#psp-review", "psp-review"). Names are looked up among channels the bot has joined.
	ResolveChannel(ctx context.Context, channel string) (string, error)

	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)
}

// Channel represents a Slack channel
type Channel struct {
	ID   string
	Name string
}
