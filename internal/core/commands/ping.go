package commands

import (
	"context"
	"fmt"
	"time"

	"botkit/internal/core/domain"
	"botkit/internal/core/port"
	"botkit/internal/core/service"

	"github.com/rs/zerolog/log"
)

const pingCooldown = 10 * time.Second

// NewPing builds the ping command. It applies a per-user cooldown through the
// tracker; the dispatcher itself never enforces cooldowns.
func NewPing(dispatcher *service.Dispatcher, cooldowns *service.CooldownTracker,
	sender port.TextSender) *domain.Command {
	return &domain.Command{
		Name:        "ping",
		Aliases:     []string{"pong"},
		Category:    "General",
		Help:        "checks that the bot is responsive",
		CooldownKey: "ping",
		Cooldown:    pingCooldown,
		Run: func(ctx context.Context, ev *domain.CommandEvent) error {
			key := "ping:" + ev.Message.AuthorID

			if remaining := cooldowns.Remaining(key); remaining > 0 {
				_, err := sender.SendMessage(ctx, ev.Message.ChannelID,
					fmt.Sprintf("ping is on cooldown for another %ds", remaining))
				return err
			}
			cooldowns.Apply(key, pingCooldown)

			ref, err := sender.SendMessage(ctx, ev.Message.ChannelID, "Pong!")
			if err != nil {
				log.Error().Err(err).Msg("failed to send pong")
				return err
			}

			dispatcher.LinkResponse(ev.Message.ID, ref)

			return nil
		},
	}
}
