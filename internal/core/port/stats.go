package port

import "context"

// StatsPublisher pushes the bot's guild count to an external listing service.
// The concrete transport for this lives outside the core.
type StatsPublisher interface {
	PublishGuildCount(ctx context.Context, guilds int) error
}
