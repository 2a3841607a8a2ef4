package discord

import (
	"context"
	"fmt"
	"sync"

	"botkit/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Session is the slice of the discordgo API the adapter needs.
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	UserChannelPermissions(userID string, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// Sender implements the transport ports over a Discord session.
type Sender struct {
	session Session

	mu    sync.RWMutex
	botID string
}

func NewSender(session Session) *Sender {
	return &Sender{session: session}
}

// SetBotID records the bot's own user ID once the gateway reports it;
// permission checks are made on its behalf.
func (s *Sender) SetBotID(id string) {
	s.mu.Lock()
	s.botID = id
	s.mu.Unlock()
}

func (s *Sender) SendMessage(_ context.Context, channelID, text string) (domain.MessageRef, error) {
	m, err := s.session.ChannelMessageSend(channelID, text)
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("failed to send message: %w", err)
	}

	return messageRef(m), nil
}

func (s *Sender) OpenDM(_ context.Context, userID string) (string, error) {
	ch, err := s.session.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to open direct message channel: %w", err)
	}

	return ch.ID, nil
}

func (s *Sender) CanSend(channelID string) bool {
	return s.hasPermission(channelID, discordgo.PermissionSendMessages)
}

func (s *Sender) CanManageMessages(channelID string) bool {
	return s.hasPermission(channelID, discordgo.PermissionManageMessages)
}

func (s *Sender) hasPermission(channelID string, permission int64) bool {
	s.mu.RLock()
	botID := s.botID
	s.mu.RUnlock()

	if botID == "" {
		return false
	}

	perms, err := s.session.UserChannelPermissions(botID, channelID)
	if err != nil {
		log.Debug().Err(err).Str("channelId", channelID).Msg("could not resolve channel permissions")
		return false
	}

	return perms&permission != 0
}

func (s *Sender) SendPage(_ context.Context, channelID string, page *domain.RenderedPage) (domain.MessageRef, error) {
	m, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: page.Text,
		Embeds:  []*discordgo.MessageEmbed{pageEmbed(page)},
	})
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("failed to send page: %w", err)
	}

	return messageRef(m), nil
}

func (s *Sender) EditPage(_ context.Context, ref domain.MessageRef, page *domain.RenderedPage) (domain.MessageRef, error) {
	embeds := []*discordgo.MessageEmbed{pageEmbed(page)}

	_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      ref.ID,
		Channel: ref.ChannelID,
		Content: &page.Text,
		Embeds:  &embeds,
	})
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("failed to edit page: %w", err)
	}

	return ref, nil
}

func (s *Sender) AddReaction(_ context.Context, ref domain.MessageRef, emoji string) error {
	if err := s.session.MessageReactionAdd(ref.ChannelID, ref.ID, emoji); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}

	return nil
}

func (s *Sender) RemoveReaction(_ context.Context, ref domain.MessageRef, emoji, userID string) error {
	if err := s.session.MessageReactionRemove(ref.ChannelID, ref.ID, emoji, userID); err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}

	return nil
}

func (s *Sender) DeleteMessage(_ context.Context, ref domain.MessageRef) error {
	if err := s.session.ChannelMessageDelete(ref.ChannelID, ref.ID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

func (s *Sender) DeleteMessages(_ context.Context, channelID string, messageIDs []string) error {
	if err := s.session.ChannelMessagesBulkDelete(channelID, messageIDs); err != nil {
		return fmt.Errorf("failed to bulk delete messages: %w", err)
	}

	return nil
}

func (s *Sender) MemberRoles(guildID, userID string) []string {
	member, err := s.session.GuildMember(guildID, userID)
	if err != nil {
		log.Debug().Err(err).Str("guildId", guildID).Str("userId", userID).Msg("could not fetch member roles")
		return nil
	}

	return member.Roles
}

func pageEmbed(page *domain.RenderedPage) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:       page.Color,
		Description: page.Description,
	}
	if page.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: page.ImageURL}
	}
	if page.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: page.Footer}
	}

	return embed
}

func messageRef(m *discordgo.Message) domain.MessageRef {
	return domain.MessageRef{ID: m.ID, ChannelID: m.ChannelID, GuildID: m.GuildID}
}
