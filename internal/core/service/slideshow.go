package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"botkit/internal/core/domain"
	"botkit/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SlideshowOptions configures a reaction-driven paged view. Items carries one
// image/content reference per page; Color, Description and Text resolve the
// rest of a page from (page, total). FinalAction runs exactly once when the
// session ends, on stop or timeout.
type SlideshowOptions struct {
	Waiter           port.ReactionWaiter
	Pages            port.PageSender
	Reactions        port.ReactionSender
	Roles            port.RoleProvider
	Items            []string
	Timeout          time.Duration
	AllowedUsers     []string
	AllowedRoles     []string
	Color            func(page, total int) int
	Description      func(page, total int) string
	Text             func(page, total int) string
	FinalAction      func(ref domain.MessageRef)
	ShowPageNumbers  bool
	WaitOnSinglePage bool
}

// Slideshow renders a paged view and walks it through an explicit state
// machine: render, arm a filtered wait, then navigate, stop or time out. Only
// one wait is ever live per session, so reactions cannot race each other into
// inconsistent page state.
type Slideshow struct {
	waiter           port.ReactionWaiter
	pages            port.PageSender
	reactions        port.ReactionSender
	roles            port.RoleProvider
	items            []string
	timeout          time.Duration
	allowedUsers     map[string]struct{}
	allowedRoles     map[string]struct{}
	color            func(page, total int) int
	description      func(page, total int) string
	text             func(page, total int) string
	finalAction      func(ref domain.MessageRef)
	showPageNumbers  bool
	waitOnSinglePage bool
}

// slideshowSession is the mutable per-menu state. ref, page, done and
// cancelWait are shared between the arming goroutine and every reaction
// dispatch, so they are only touched under mu.
type slideshowSession struct {
	ctx        context.Context
	mu         sync.Mutex
	ref        domain.MessageRef
	page       int
	done       bool
	cancelWait func()
	log        zerolog.Logger
}

func (sess *slideshowSession) current() (domain.MessageRef, int) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ref, sess.page
}

func (sess *slideshowSession) advance(ref domain.MessageRef, page int) {
	sess.mu.Lock()
	sess.ref = ref
	sess.page = page
	sess.mu.Unlock()
}

func NewSlideshow(opts SlideshowOptions) (*Slideshow, error) {
	if len(opts.Items) == 0 {
		return nil, domain.ErrNoPages
	}

	s := &Slideshow{
		waiter:           opts.Waiter,
		pages:            opts.Pages,
		reactions:        opts.Reactions,
		roles:            opts.Roles,
		items:            opts.Items,
		timeout:          opts.Timeout,
		allowedUsers:     make(map[string]struct{}, len(opts.AllowedUsers)),
		allowedRoles:     make(map[string]struct{}, len(opts.AllowedRoles)),
		color:            opts.Color,
		description:      opts.Description,
		text:             opts.Text,
		finalAction:      opts.FinalAction,
		showPageNumbers:  opts.ShowPageNumbers,
		waitOnSinglePage: opts.WaitOnSinglePage,
	}

	for _, id := range opts.AllowedUsers {
		s.allowedUsers[id] = struct{}{}
	}
	for _, id := range opts.AllowedRoles {
		s.allowedRoles[id] = struct{}{}
	}

	return s, nil
}

// Display starts a session as a new message in the given channel.
func (s *Slideshow) Display(ctx context.Context, channelID string, startPage int) error {
	page := s.clamp(startPage)

	ref, err := s.pages.SendPage(ctx, channelID, s.renderPage(page))
	if err != nil {
		return fmt.Errorf("failed to send slideshow page: %w", err)
	}

	s.initialize(ctx, ref, page)

	return nil
}

// DisplayAt starts a session by editing an existing message in place.
func (s *Slideshow) DisplayAt(ctx context.Context, ref domain.MessageRef, startPage int) error {
	page := s.clamp(startPage)

	ref, err := s.pages.EditPage(ctx, ref, s.renderPage(page))
	if err != nil {
		return fmt.Errorf("failed to edit slideshow page: %w", err)
	}

	s.initialize(ctx, ref, page)

	return nil
}

func (s *Slideshow) initialize(ctx context.Context, ref domain.MessageRef, page int) {
	id, _ := uuid.NewV4()
	// the session outlives the dispatch that started it
	sess := &slideshowSession{
		ctx:  context.WithoutCancel(ctx),
		ref:  ref,
		page: page,
		log: log.With().
			Str("session", id.String()).
			Str("channelId", ref.ChannelID).
			Str("messageId", ref.ID).
			Logger(),
	}

	switch {
	case len(s.items) > 1:
		s.attach(sess, domain.ReactionPrev, domain.ReactionStop, domain.ReactionNext)
	case s.waitOnSinglePage:
		s.attach(sess, domain.ReactionStop)
	default:
		s.finish(sess)
		return
	}

	sess.log.Debug().Int("page", page).Int("total", len(s.items)).Msg("slideshow session started")
	s.arm(sess)
}

func (s *Slideshow) attach(sess *slideshowSession, emojis ...string) {
	for _, emoji := range emojis {
		if err := s.reactions.AddReaction(sess.ctx, sess.ref, emoji); err != nil {
			sess.log.Warn().Err(err).Str("emoji", emoji).Msg("could not attach reaction")
		}
	}
}

// arm registers a fresh wait with the full timeout. The registration is the
// session's to cancel; a new one is only ever created after the previous one
// has been consumed.
func (s *Slideshow) arm(sess *slideshowSession) {
	cancel := s.waiter.WaitForReaction(
		func(r domain.Reaction) bool { return s.qualifies(sess, r) },
		func(r domain.Reaction) { s.transition(sess, r) },
		s.timeout,
		func() { s.finish(sess) },
	)

	sess.mu.Lock()
	sess.cancelWait = cancel
	sess.mu.Unlock()
}

func (s *Slideshow) qualifies(sess *slideshowSession, r domain.Reaction) bool {
	ref, _ := sess.current()
	if r.MessageID != ref.ID {
		return false
	}

	switch r.Emoji {
	case domain.ReactionPrev, domain.ReactionStop, domain.ReactionNext:
	default:
		return false
	}

	return s.allowed(r)
}

// allowed applies the interactive-menu authorization rule: with no allow-lists
// configured any actor qualifies, otherwise the actor must be listed or hold
// a listed role.
func (s *Slideshow) allowed(r domain.Reaction) bool {
	if len(s.allowedUsers) == 0 && len(s.allowedRoles) == 0 {
		return true
	}

	if _, ok := s.allowedUsers[r.UserID]; ok {
		return true
	}

	if len(s.allowedRoles) > 0 && s.roles != nil && r.GuildID != "" {
		for _, role := range s.roles.MemberRoles(r.GuildID, r.UserID) {
			if _, ok := s.allowedRoles[role]; ok {
				return true
			}
		}
	}

	return false
}

func (s *Slideshow) transition(sess *slideshowSession, r domain.Reaction) {
	ref, page := sess.current()

	switch r.Emoji {
	case domain.ReactionPrev:
		if page > 1 {
			page--
		}
	case domain.ReactionNext:
		if page < len(s.items) {
			page++
		}
	case domain.ReactionStop:
		s.finish(sess)
		return
	}

	// permission failures here are non-fatal, the session keeps going
	if err := s.reactions.RemoveReaction(sess.ctx, ref, r.Emoji, r.UserID); err != nil {
		sess.log.Debug().Err(err).Msg("could not remove triggering reaction")
	}

	newRef, err := s.pages.EditPage(sess.ctx, ref, s.renderPage(page))
	if err != nil {
		sess.log.Warn().Err(err).Int("page", page).Msg("render failed, ending slideshow session")
		s.finish(sess)
		return
	}

	sess.advance(newRef, page)
	sess.log.Debug().Int("page", page).Msg("slideshow navigated")

	s.arm(sess)
}

// finish invokes the terminal action exactly once with the last-known message
// reference.
func (s *Slideshow) finish(sess *slideshowSession) {
	sess.mu.Lock()
	if sess.done {
		sess.mu.Unlock()
		return
	}
	sess.done = true
	ref, page := sess.ref, sess.page
	sess.mu.Unlock()

	sess.log.Debug().Int("page", page).Msg("slideshow session ended")

	if s.finalAction != nil {
		s.finalAction(ref)
	}
}

func (s *Slideshow) renderPage(page int) *domain.RenderedPage {
	total := len(s.items)

	p := &domain.RenderedPage{ImageURL: s.items[page-1]}
	if s.color != nil {
		p.Color = s.color(page, total)
	}
	if s.description != nil {
		p.Description = s.description(page, total)
	}
	if s.showPageNumbers {
		p.Footer = fmt.Sprintf("Image %d/%d", page, total)
	}
	if s.text != nil {
		p.Text = s.text(page, total)
	}

	return p
}

func (s *Slideshow) clamp(page int) int {
	if page < 1 {
		return 1
	}
	if page > len(s.items) {
		return len(s.items)
	}

	return page
}
