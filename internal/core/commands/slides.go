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

const slidesAccent = 0x5865F2

// SlidesDeps are the collaborators a slideshow session needs.
type SlidesDeps struct {
	Waiter    port.ReactionWaiter
	Pages     port.PageSender
	Reactions port.ReactionSender
	Deleter   port.MessageDeleter
	Roles     port.RoleProvider
}

// NewSlides builds the slides command: a reaction-paged image gallery only the
// invoking user may navigate. The menu message is removed when the session
// ends.
func NewSlides(deps SlidesDeps, urls []string, timeout time.Duration) *domain.Command {
	return &domain.Command{
		Name:      "slides",
		Aliases:   []string{"gallery"},
		Category:  "Fun",
		Arguments: "[page]",
		Help:      "browses the configured image gallery",
		Run: func(ctx context.Context, ev *domain.CommandEvent) error {
			startPage := 1
			if ev.Args != "" {
				if _, err := fmt.Sscanf(ev.Args, "%d", &startPage); err != nil {
					startPage = 1
				}
			}

			show, err := service.NewSlideshow(service.SlideshowOptions{
				Waiter:       deps.Waiter,
				Pages:        deps.Pages,
				Reactions:    deps.Reactions,
				Roles:        deps.Roles,
				Items:        urls,
				Timeout:      timeout,
				AllowedUsers: []string{ev.Message.AuthorID},
				Color: func(_, _ int) int {
					return slidesAccent
				},
				Description: func(page, total int) string {
					return fmt.Sprintf("Gallery for %s", ev.Message.Username)
				},
				ShowPageNumbers: true,
				FinalAction: func(ref domain.MessageRef) {
					if err := deps.Deleter.DeleteMessage(context.Background(), ref); err != nil {
						log.Debug().Err(err).Str("messageId", ref.ID).Msg("could not remove finished gallery")
					}
				},
			})
			if err != nil {
				return fmt.Errorf("failed to build slideshow: %w", err)
			}

			return show.Display(ctx, ev.Message.ChannelID, startPage)
		},
	}
}
