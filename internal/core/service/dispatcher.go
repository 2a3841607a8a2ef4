package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"botkit/internal/core/domain"
	"botkit/internal/core/port"

	"github.com/rs/zerolog/log"
)

// DispatcherOptions wires a Dispatcher. Prefix empty means mention-style
// prefixing against the bot's own identity. HelpWord defaults to "help",
// Split to SplitMessage at the transport message limit.
type DispatcherOptions struct {
	Registry   port.CommandRegistry
	Sender     port.TextSender
	Deleter    port.MessageDeleter
	Usage      *UsageCounter
	Links      *LinkCache
	Prefix     string
	HelpWord   string
	OwnerID    string
	CoOwnerIDs []string
	Success    string
	Warning    string
	Failure    string
	HelpFunc   HelpFunc
	Split      SplitFunc
}

// Dispatcher routes inbound messages to registered commands: prefix and name
// parsing, help delivery, resolution through the registry, usage accounting
// and listener notification. It does not enforce cooldowns; command bodies
// query the tracker themselves.
type Dispatcher struct {
	registry   port.CommandRegistry
	sender     port.TextSender
	deleter    port.MessageDeleter
	usage      *UsageCounter
	links      *LinkCache
	prefix     string
	helpWord   string
	ownerID    string
	coOwnerIDs []string
	success    string
	warning    string
	failure    string
	helpFunc   HelpFunc
	split      SplitFunc
	start      time.Time

	mu       sync.RWMutex
	listener port.CommandListener
	botID    string
	botName  string
}

func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		registry:   opts.Registry,
		sender:     opts.Sender,
		deleter:    opts.Deleter,
		usage:      opts.Usage,
		links:      opts.Links,
		prefix:     opts.Prefix,
		helpWord:   opts.HelpWord,
		ownerID:    opts.OwnerID,
		coOwnerIDs: opts.CoOwnerIDs,
		success:    opts.Success,
		warning:    opts.Warning,
		failure:    opts.Failure,
		helpFunc:   opts.HelpFunc,
		split:      opts.Split,
		start:      time.Now(),
	}

	if d.helpWord == "" {
		d.helpWord = "help"
	}
	if d.usage == nil {
		d.usage = NewUsageCounter()
	}
	if d.links == nil {
		d.links = NewLinkCache(0)
	}
	if d.split == nil {
		d.split = func(text string) []string {
			return SplitMessage(text, domain.MessageLimit)
		}
	}
	if d.helpFunc == nil {
		d.helpFunc = d.defaultHelp
	}

	return d
}

// SetIdentity records the bot's own user ID and name, as reported by the
// transport once it is ready. Mention prefixing and the textual prefix need
// them.
func (d *Dispatcher) SetIdentity(id, name string) {
	d.mu.Lock()
	d.botID = id
	d.botName = name
	d.mu.Unlock()
}

func (d *Dispatcher) SetListener(l port.CommandListener) {
	d.mu.Lock()
	d.listener = l
	d.mu.Unlock()
}

func (d *Dispatcher) Listener() port.CommandListener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.listener
}

func (d *Dispatcher) StartTime() time.Time { return d.start }

func (d *Dispatcher) HelpWord() string { return d.helpWord }

func (d *Dispatcher) Success() string { return d.success }

func (d *Dispatcher) Warning() string { return d.warning }

func (d *Dispatcher) Failure() string { return d.failure }

func (d *Dispatcher) OwnerID() string { return d.ownerID }

func (d *Dispatcher) CoOwnerIDs() []string { return d.coOwnerIDs }

// CoOwnerIDsInt64 converts the co-owner IDs to numeric form, one output per
// input.
func (d *Dispatcher) CoOwnerIDsInt64() ([]int64, error) {
	ids := make([]int64, len(d.coOwnerIDs))
	for i, raw := range d.coOwnerIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid co-owner id %q: %w", raw, err)
		}
		ids[i] = id
	}

	return ids, nil
}

// IsOwner reports whether the user is the owner or a co-owner.
func (d *Dispatcher) IsOwner(userID string) bool {
	if userID == d.ownerID {
		return true
	}

	for _, id := range d.coOwnerIDs {
		if userID == id {
			return true
		}
	}

	return false
}

// TextualPrefix is the prefix as shown to users: the configured literal, or
// an @-mention of the bot when none is configured.
func (d *Dispatcher) TextualPrefix() string {
	if d.prefix != "" {
		return d.prefix
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	return "@" + d.botName + " "
}

func (d *Dispatcher) CommandUses(name string) int {
	return d.usage.Count(name)
}

// UsesLinkedDeletion reports whether a positive-capacity link cache was
// configured.
func (d *Dispatcher) UsesLinkedDeletion() bool {
	return d.links.Enabled()
}

// LinkResponse records a bot response as belonging to the trigger message so
// it is removed when the trigger is deleted.
func (d *Dispatcher) LinkResponse(triggerID string, ref domain.MessageRef) {
	d.links.Link(triggerID, ref)
}

// HandleMessage runs the per-message dispatch state machine, terminal on the
// first matching branch. An unresolvable prefix or name is the normal
// not-a-command path, never an error.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg *domain.Message) {
	if msg.AuthorBot {
		return
	}

	rest, ok := d.stripPrefix(msg.Content)
	if !ok {
		d.notifyNonCommand(msg)
		return
	}

	name, args := domain.SplitCommand(rest)

	if strings.EqualFold(name, d.helpWord) {
		d.deliverHelp(ctx, msg, args)
		return
	}

	if msg.DM || d.sender.CanSend(msg.ChannelID) {
		if cmd, found := d.registry.Resolve(name); found {
			d.runCommand(ctx, msg, cmd, args)
			return
		}
	}

	d.notifyNonCommand(msg)
}

func (d *Dispatcher) runCommand(ctx context.Context, msg *domain.Message, cmd *domain.Command, args string) {
	l := log.With().
		Str("messageId", msg.ID).
		Str("channelId", msg.ChannelID).
		Str("command", cmd.Name).
		Logger()

	l.Info().Msg("dispatching command")

	ev := &domain.CommandEvent{Message: msg, Args: args, Prefix: d.TextualPrefix()}

	if listener := d.Listener(); listener != nil {
		listener.OnCommand(ev, cmd)
	}

	d.usage.Increment(cmd.Name)

	if err := cmd.Run(ctx, ev); err != nil {
		l.Error().Err(err).Msg("command failed")
	}
}

func (d *Dispatcher) deliverHelp(ctx context.Context, msg *domain.Message, args string) {
	ev := &domain.CommandEvent{Message: msg, Args: args, Prefix: d.TextualPrefix()}

	if listener := d.Listener(); listener != nil {
		listener.OnCommand(ev, nil)
	}

	chunks := d.split(d.helpFunc(ev))

	dm, err := d.sender.OpenDM(ctx, msg.AuthorID)
	if err != nil {
		d.warnInChannel(ctx, msg.ChannelID,
			"Help cannot be sent because I could not open a direct message with you.")
	} else if _, err = d.sender.SendMessage(ctx, dm, chunks[0]); err != nil {
		d.warnInChannel(ctx, msg.ChannelID,
			"Help cannot be sent because you are blocking direct messages.")
	} else {
		// remaining chunks are best-effort once the first got through
		for _, chunk := range chunks[1:] {
			if _, err := d.sender.SendMessage(ctx, dm, chunk); err != nil {
				log.Warn().Err(err).Msg("failed to deliver help chunk")
			}
		}
	}

	if listener := d.Listener(); listener != nil {
		listener.OnCompletedCommand(ev, nil)
	}
}

// HandleMessageDelete cascades deletion of linked bot responses when their
// trigger message is removed. All deletions are best-effort.
func (d *Dispatcher) HandleMessageDelete(ctx context.Context, ref domain.MessageRef) {
	if !d.links.Enabled() || ref.GuildID == "" {
		return
	}

	refs := d.links.Take(ref.ID)
	if len(refs) == 0 {
		return
	}

	if len(refs) > 1 && d.deleter.CanManageMessages(ref.ChannelID) {
		ids := make([]string, len(refs))
		for i, linked := range refs {
			ids[i] = linked.ID
		}
		if err := d.deleter.DeleteMessages(ctx, ref.ChannelID, ids); err != nil {
			log.Debug().Err(err).Str("triggerId", ref.ID).Msg("bulk delete of linked messages failed")
		}
		return
	}

	for _, linked := range refs {
		if err := d.deleter.DeleteMessage(ctx, linked); err != nil {
			log.Debug().Err(err).Str("messageId", linked.ID).Msg("delete of linked message failed")
		}
	}
}

// stripPrefix returns the content after the active prefix: the configured
// literal matched case-insensitively, or, with no literal configured, a
// mention of the bot in either the plain or the role-marker form.
func (d *Dispatcher) stripPrefix(content string) (string, bool) {
	if d.prefix != "" {
		if len(content) >= len(d.prefix) && strings.EqualFold(content[:len(d.prefix)], d.prefix) {
			return content[len(d.prefix):], true
		}
		return "", false
	}

	d.mu.RLock()
	botID := d.botID
	d.mu.RUnlock()

	if botID == "" {
		return "", false
	}

	for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if strings.HasPrefix(content, mention) {
			return content[len(mention):], true
		}
	}

	return "", false
}

func (d *Dispatcher) notifyNonCommand(msg *domain.Message) {
	if listener := d.Listener(); listener != nil {
		listener.OnNonCommandMessage(msg)
	}
}

func (d *Dispatcher) warnInChannel(ctx context.Context, channelID, text string) {
	if _, err := d.sender.SendMessage(ctx, channelID, strings.TrimSpace(d.warning+" "+text)); err != nil {
		log.Warn().Err(err).Str("channelId", channelID).Msg("failed to send warning")
	}
}

func (d *Dispatcher) defaultHelp(ev *domain.CommandEvent) string {
	d.mu.RLock()
	botName := d.botName
	d.mu.RUnlock()

	return BuildHelp(botName, d.TextualPrefix(), d.registry.Commands(), d.IsOwner(ev.Message.AuthorID))
}
