package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/service/slack"
	"github.com/secmon-lab/pspsync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken string
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for posting sync reports)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("PSPSYNC_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel ID or name receiving sync reports",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("PSPSYNC_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured checks if a report can be posted
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure returns the use case option posting reports, or nil when Slack is not configured
func (x *Slack) Configure() (usecase.Option, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.channel == "" {
		return nil, goerr.Wrap(ErrMissingChannel, "invalid slack configuration")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack client")
	}
	return usecase.WithSlack(svc, x.channel), nil
}
