package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"botkit/internal/core/domain"
	"botkit/internal/core/port"
	"botkit/internal/core/service"

	"github.com/rs/zerolog/log"
)

// NewRemind builds the remind command: `remind <duration> <text>` schedules a
// delayed message, `remind cancel` withdraws a pending one. One reminder per
// user; scheduling again replaces the registered handle, so the command
// cancels the old one first.
func NewRemind(tasks *service.TaskRegistry, sender port.TextSender) *domain.Command {
	return &domain.Command{
		Name:      "remind",
		Aliases:   []string{"reminder"},
		Category:  "Utility",
		Arguments: "<duration> <text> | cancel",
		Help:      "sends a reminder after the given duration",
		Run: func(ctx context.Context, ev *domain.CommandEvent) error {
			name := "remind:" + ev.Message.AuthorID
			channelID := ev.Message.ChannelID

			if strings.EqualFold(ev.Args, "cancel") {
				tasks.Cancel(name, false)
				_, err := sender.SendMessage(ctx, channelID, "Reminder cancelled.")
				return err
			}

			rawDelay, text := domain.SplitCommand(ev.Args)
			delay, err := time.ParseDuration(rawDelay)
			if err != nil || delay <= 0 || text == "" {
				_, err := sender.SendMessage(ctx, channelID, "Usage: remind <duration> <text>")
				return err
			}

			if tasks.Contains(name) {
				tasks.Cancel(name, false)
			}

			tasks.Schedule(name, delay, func(taskCtx context.Context) {
				if taskCtx.Err() != nil {
					return
				}
				if _, err := sender.SendMessage(taskCtx, channelID, "Reminder: "+text); err != nil {
					log.Warn().Err(err).Str("channelId", channelID).Msg("failed to deliver reminder")
				}
			})

			_, err = sender.SendMessage(ctx, channelID, fmt.Sprintf("Reminding you in %s.", delay))

			return err
		},
	}
}
