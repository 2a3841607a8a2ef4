package discord

import (
	"context"
	"errors"
	"testing"

	"botkit/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockSession) ChannelMessageEditComplex(edit *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockSession) MessageReactionAdd(channelID, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	return m.Called(channelID, messageID, emojiID).Error(0)
}

func (m *MockSession) MessageReactionRemove(channelID, messageID, emojiID, userID string, _ ...discordgo.RequestOption) error {
	return m.Called(channelID, messageID, emojiID, userID).Error(0)
}

func (m *MockSession) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	return m.Called(channelID, messageID).Error(0)
}

func (m *MockSession) ChannelMessagesBulkDelete(channelID string, messages []string, _ ...discordgo.RequestOption) error {
	return m.Called(channelID, messages).Error(0)
}

func (m *MockSession) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	args := m.Called(recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Channel), args.Error(1)
}

func (m *MockSession) UserChannelPermissions(userID string, channelID string, _ ...discordgo.RequestOption) (int64, error) {
	args := m.Called(userID, channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSession) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	args := m.Called(guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Member), args.Error(1)
}

func TestSendMessage(t *testing.T) {
	session := &MockSession{}
	session.On("ChannelMessageSend", "chan", "hello").
		Return(&discordgo.Message{ID: "m1", ChannelID: "chan", GuildID: "guild"}, nil)

	sender := NewSender(session)

	ref, err := sender.SendMessage(context.Background(), "chan", "hello")

	require.NoError(t, err)
	assert.Equal(t, domain.MessageRef{ID: "m1", ChannelID: "chan", GuildID: "guild"}, ref)
	session.AssertExpectations(t)
}

func TestSendMessageError(t *testing.T) {
	session := &MockSession{}
	session.On("ChannelMessageSend", "chan", "hello").
		Return(nil, errors.New("http 403"))

	sender := NewSender(session)

	_, err := sender.SendMessage(context.Background(), "chan", "hello")

	require.ErrorContains(t, err, "failed to send message")
}

func TestOpenDM(t *testing.T) {
	session := &MockSession{}
	session.On("UserChannelCreate", "user").
		Return(&discordgo.Channel{ID: "dm"}, nil)

	sender := NewSender(session)

	channelID, err := sender.OpenDM(context.Background(), "user")

	require.NoError(t, err)
	assert.Equal(t, "dm", channelID)
}

func TestOpenDMError(t *testing.T) {
	session := &MockSession{}
	session.On("UserChannelCreate", "user").
		Return(nil, errors.New("dms closed"))

	sender := NewSender(session)

	_, err := sender.OpenDM(context.Background(), "user")

	require.ErrorContains(t, err, "failed to open direct message channel")
}

func TestPermissionChecks(t *testing.T) {
	type TestCase struct {
		description string
		perms      int64
		permsErr   error
		wantSend   bool
		wantManage bool
	}

	testCases := []TestCase{
		{
			description: "send only",
			perms:       discordgo.PermissionSendMessages,
			wantSend:    true,
			wantManage:  false,
		},
		{
			description: "manage only",
			perms:       discordgo.PermissionManageMessages,
			wantSend:    false,
			wantManage:  true,
		},
		{
			description: "both",
			perms:       discordgo.PermissionSendMessages | discordgo.PermissionManageMessages,
			wantSend:    true,
			wantManage:  true,
		},
		{
			description: "lookup failure denies",
			perms:       0,
			permsErr:    errors.New("unknown channel"),
			wantSend:    false,
			wantManage:  false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			session := &MockSession{}
			session.On("UserChannelPermissions", "bot", "chan").
				Return(testCase.perms, testCase.permsErr)

			sender := NewSender(session)
			sender.SetBotID("bot")

			assert.Equal(t, testCase.wantSend, sender.CanSend("chan"))
			assert.Equal(t, testCase.wantManage, sender.CanManageMessages("chan"))
		})
	}
}

func TestPermissionChecksBeforeIdentity(t *testing.T) {
	sender := NewSender(&MockSession{})

	assert.False(t, sender.CanSend("chan"))
	assert.False(t, sender.CanManageMessages("chan"))
}

func TestSendPage(t *testing.T) {
	session := &MockSession{}
	session.On("ChannelMessageSendComplex", "chan", mock.MatchedBy(func(data *discordgo.MessageSend) bool {
		if data.Content != "look" || len(data.Embeds) != 1 {
			return false
		}
		embed := data.Embeds[0]
		return embed.Color == 0x5865F2 &&
			embed.Description == "desc" &&
			embed.Image != nil && embed.Image.URL == "https://cdn.example/1.png" &&
			embed.Footer != nil && embed.Footer.Text == "Image 1/3"
	})).Return(&discordgo.Message{ID: "m1", ChannelID: "chan"}, nil)

	sender := NewSender(session)

	ref, err := sender.SendPage(context.Background(), "chan", &domain.RenderedPage{
		Color:       0x5865F2,
		ImageURL:    "https://cdn.example/1.png",
		Description: "desc",
		Footer:      "Image 1/3",
		Text:        "look",
	})

	require.NoError(t, err)
	assert.Equal(t, "m1", ref.ID)
	session.AssertExpectations(t)
}

func TestSendPageOmitsEmptyEmbedParts(t *testing.T) {
	session := &MockSession{}
	session.On("ChannelMessageSendComplex", "chan", mock.MatchedBy(func(data *discordgo.MessageSend) bool {
		embed := data.Embeds[0]
		return embed.Image == nil && embed.Footer == nil
	})).Return(&discordgo.Message{ID: "m1", ChannelID: "chan"}, nil)

	sender := NewSender(session)

	_, err := sender.SendPage(context.Background(), "chan", &domain.RenderedPage{Description: "desc"})

	require.NoError(t, err)
	session.AssertExpectations(t)
}

func TestEditPage(t *testing.T) {
	session := &MockSession{}
	session.On("ChannelMessageEditComplex", mock.MatchedBy(func(edit *discordgo.MessageEdit) bool {
		return edit.ID == "m1" && edit.Channel == "chan" &&
			edit.Content != nil && *edit.Content == "look" &&
			edit.Embeds != nil && len(*edit.Embeds) == 1
	})).Return(&discordgo.Message{ID: "m1", ChannelID: "chan"}, nil)

	sender := NewSender(session)

	ref := domain.MessageRef{ID: "m1", ChannelID: "chan"}
	got, err := sender.EditPage(context.Background(), ref, &domain.RenderedPage{Text: "look", Description: "desc"})

	require.NoError(t, err)
	assert.Equal(t, ref, got)
	session.AssertExpectations(t)
}

func TestReactions(t *testing.T) {
	session := &MockSession{}
	session.On("MessageReactionAdd", "chan", "m1", "▶").Return(nil)
	session.On("MessageReactionRemove", "chan", "m1", "▶", "user").Return(nil)

	sender := NewSender(session)
	ref := domain.MessageRef{ID: "m1", ChannelID: "chan"}

	require.NoError(t, sender.AddReaction(context.Background(), ref, "▶"))
	require.NoError(t, sender.RemoveReaction(context.Background(), ref, "▶", "user"))
	session.AssertExpectations(t)
}

func TestDeleteMessages(t *testing.T) {
	session := &MockSession{}
	session.On("ChannelMessageDelete", "chan", "m1").Return(nil)
	session.On("ChannelMessagesBulkDelete", "chan", []string{"a", "b"}).Return(nil)

	sender := NewSender(session)

	require.NoError(t, sender.DeleteMessage(context.Background(), domain.MessageRef{ID: "m1", ChannelID: "chan"}))
	require.NoError(t, sender.DeleteMessages(context.Background(), "chan", []string{"a", "b"}))
	session.AssertExpectations(t)
}

func TestMemberRoles(t *testing.T) {
	session := &MockSession{}
	session.On("GuildMember", "guild", "user").
		Return(&discordgo.Member{Roles: []string{"mod", "dj"}}, nil)

	sender := NewSender(session)

	assert.Equal(t, []string{"mod", "dj"}, sender.MemberRoles("guild", "user"))
}

func TestMemberRolesLookupFailure(t *testing.T) {
	session := &MockSession{}
	session.On("GuildMember", "guild", "user").
		Return(nil, errors.New("unknown member"))

	sender := NewSender(session)

	assert.Nil(t, sender.MemberRoles("guild", "user"))
}
