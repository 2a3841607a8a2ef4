package domain

// Message is an inbound chat message as delivered by the transport.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	AuthorBot bool
	Username  string
	Content   string
	DM        bool
}

// Reaction is an inbound reaction-add event.
type Reaction struct {
	MessageID string
	ChannelID string
	GuildID   string
	UserID    string
	Emoji     string
}

// MessageRef identifies a message the bot has sent or observed.
type MessageRef struct {
	ID        string
	ChannelID string
	GuildID   string
}

// RenderedPage is one fully resolved page of an interactive menu, ready to be
// sent or edited in place by the transport.
type RenderedPage struct {
	Color       int
	ImageURL    string
	Description string
	Footer      string
	Text        string
}

// CommandEvent carries a parsed invocation to a command handler.
type CommandEvent struct {
	Message *Message
	Args    string
	Prefix  string
}
