package slack

import (
	"context"
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api    *slack.Client
	apiURL string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithAPIURL points the client at another Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{}
	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

func (c *client) ResolveChannel(ctx context.Context, channel string) (string, error) {
	if looksLikeChannelID(channel) {
		return channel, nil
	}

	want := normalizeChannelName(channel)
	if want == "" {
		return "", goerr.New("channel name is empty", goerr.V("channel", channel))
	}

	channels, err := c.listJoinedChannels(ctx)
	if err != nil {
		return "", err
	}
	for _, ch := range channels {
		if ch.Name == want {
			return ch.ID, nil
		}
	}

	return "", goerr.New("bot has not joined the channel", goerr.V("channel", want))
}

func (c *client) listJoinedChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	var cursor string

	for {
		params := &slack.GetConversationsParameters{
			Types:           []string{"public_channel", "private_channel"},
			ExcludeArchived: true,
			Limit:           200,
			Cursor:          cursor,
		}

		convs, nextCursor, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get conversations")
		}

		for _, conv := range convs {
			if conv.IsMember {
				channels = append(channels, Channel{
					ID:   conv.ID,
					Name: conv.Name,
				})
			}
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	return channels, nil
}

func (c *client) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}
	return ts, nil
}

// looksLikeChannelID matches conversation IDs such as C024BE91L or G01ABCDEF
func looksLikeChannelID(s string) bool {
	if len(s) < 9 || (s[0] != 'C' && s[0] != 'G') {
		return false
	}
	for _, r := range s[1:] {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// normalizeChannelName maps user input like "#PSP Review" to the stored form "psp-review"
func normalizeChannelName(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "#"))
	name = strings.ReplaceAll(name, " ", "-")
	return strings.ToLower(name)
}
