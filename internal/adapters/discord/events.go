package discord

import (
	"context"
	"time"

	"botkit/internal/core/domain"
	"botkit/internal/core/port"
	"botkit/internal/core/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Handler bridges gateway events into the core: messages to the dispatcher,
// reactions to the waiter, deletions to the linked-message cascade.
type Handler struct {
	dispatcher *service.Dispatcher
	waiter     *service.ReactionWaiter
	sender     *Sender
	stats      port.StatsPublisher
	timeout    time.Duration
}

func NewHandler(dispatcher *service.Dispatcher, waiter *service.ReactionWaiter, sender *Sender,
	stats port.StatsPublisher, timeout time.Duration) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		waiter:     waiter,
		sender:     sender,
		stats:      stats,
		timeout:    timeout,
	}
}

func (h *Handler) Register(s *discordgo.Session) {
	s.AddHandler(h.onReady)
	s.AddHandler(h.onMessageCreate)
	s.AddHandler(h.onReactionAdd)
	s.AddHandler(h.onMessageDelete)
	s.AddHandler(h.onGuildCreate)
	s.AddHandler(h.onGuildDelete)
}

func (h *Handler) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().Str("username", r.User.Username).Int("guilds", len(r.Guilds)).Msg("gateway ready")

	h.dispatcher.SetIdentity(r.User.ID, r.User.Username)
	h.sender.SetBotID(r.User.ID)

	h.publishStats(len(r.Guilds))
}

func (h *Handler) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.dispatcher.HandleMessage(ctx, &domain.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		AuthorID:  m.Author.ID,
		AuthorBot: m.Author.Bot,
		Username:  m.Author.Username,
		Content:   m.Content,
		DM:        m.GuildID == "",
	})
}

func (h *Handler) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}

	h.waiter.Dispatch(domain.Reaction{
		MessageID: r.MessageID,
		ChannelID: r.ChannelID,
		GuildID:   r.GuildID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
	})
}

func (h *Handler) onMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.dispatcher.HandleMessageDelete(ctx, domain.MessageRef{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
	})
}

func (h *Handler) onGuildCreate(s *discordgo.Session, _ *discordgo.GuildCreate) {
	h.publishStats(guildCount(s))
}

func (h *Handler) onGuildDelete(s *discordgo.Session, _ *discordgo.GuildDelete) {
	h.publishStats(guildCount(s))
}

func (h *Handler) publishStats(guilds int) {
	if h.stats == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		if err := h.stats.PublishGuildCount(ctx, guilds); err != nil {
			log.Warn().Err(err).Msg("failed to publish guild count")
		}
	}()
}

func guildCount(s *discordgo.Session) int {
	if s.State == nil {
		return 0
	}

	return len(s.State.Guilds)
}
