package port

import (
	"context"

	"botkit/internal/core/domain"
)

type TextSender interface {
	// SendMessage sends plain text to a channel and returns a reference to the
	// created message.
	SendMessage(ctx context.Context, channelID, text string) (domain.MessageRef, error)
	// OpenDM opens (or reuses) a private channel to the given user and returns
	// its channel ID.
	OpenDM(ctx context.Context, userID string) (string, error)
	// CanSend reports whether the bot may send messages in the given channel.
	CanSend(channelID string) bool
}

type PageSender interface {
	// SendPage sends a rendered menu page as a new message.
	SendPage(ctx context.Context, channelID string, page *domain.RenderedPage) (domain.MessageRef, error)
	// EditPage replaces the referenced message with a new rendered page.
	EditPage(ctx context.Context, ref domain.MessageRef, page *domain.RenderedPage) (domain.MessageRef, error)
}

type ReactionSender interface {
	// AddReaction attaches an emoji reaction to the referenced message.
	AddReaction(ctx context.Context, ref domain.MessageRef, emoji string) error
	// RemoveReaction removes a user's emoji reaction from the referenced message.
	RemoveReaction(ctx context.Context, ref domain.MessageRef, emoji, userID string) error
}

type MessageDeleter interface {
	// DeleteMessage deletes a single message.
	DeleteMessage(ctx context.Context, ref domain.MessageRef) error
	// DeleteMessages bulk-deletes messages from one channel.
	DeleteMessages(ctx context.Context, channelID string, messageIDs []string) error
	// CanManageMessages reports whether the bot may manage (bulk-delete)
	// messages in the given channel.
	CanManageMessages(channelID string) bool
}

type RoleProvider interface {
	// MemberRoles returns the role IDs held by a guild member.
	MemberRoles(guildID, userID string) []string
}
