package commands

import (
	"context"
	"fmt"
	"time"

	"botkit/internal/core/domain"
	"botkit/internal/core/port"
	"botkit/internal/core/service"
)

// NewAbout builds the about command: uptime, prefix and a usage sample.
func NewAbout(dispatcher *service.Dispatcher, sender port.TextSender) *domain.Command {
	return &domain.Command{
		Name:     "about",
		Category: "General",
		Help:     "shows uptime and usage information",
		Run: func(ctx context.Context, ev *domain.CommandEvent) error {
			uptime := time.Since(dispatcher.StartTime()).Truncate(time.Second)

			text := fmt.Sprintf("Up for %s. Prefix is `%s`, see `%s%s` for commands. Pinged %d times so far.",
				uptime, ev.Prefix, ev.Prefix, dispatcher.HelpWord(), dispatcher.CommandUses("ping"))

			ref, err := sender.SendMessage(ctx, ev.Message.ChannelID, text)
			if err != nil {
				return err
			}

			dispatcher.LinkResponse(ev.Message.ID, ref)

			return nil
		},
	}
}
