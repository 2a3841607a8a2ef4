package port

import (
	"time"

	"botkit/internal/core/domain"
)

type ReactionWaiter interface {
	// WaitForReaction registers a one-shot wait for a reaction event passing
	// filter. The first qualifying event consumes the registration and invokes
	// action; if none arrives before timeout, onTimeout runs instead. Exactly
	// one of the two callbacks fires. The returned function cancels the
	// registration without invoking either.
	WaitForReaction(filter func(domain.Reaction) bool, action func(domain.Reaction),
		timeout time.Duration, onTimeout func()) func()
}
