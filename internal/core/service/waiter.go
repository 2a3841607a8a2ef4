package service

import (
	"slices"
	"sync"
	"time"

	"botkit/internal/core/domain"
)

// ReactionWaiter matches inbound reaction events against registered one-shot
// waits. A wait is a filter plus continuation, not a blocked goroutine: the
// transport bridge feeds events into Dispatch, and the first wait whose
// filter admits the event is consumed and its action invoked. Each wait's
// deadline fires its timeout callback exactly once, and a consumed wait can
// never also time out.
type ReactionWaiter struct {
	mu    sync.Mutex
	waits []*reactionWait
}

type reactionWait struct {
	filter    func(domain.Reaction) bool
	action    func(domain.Reaction)
	onTimeout func()
	timer     *time.Timer
	done      bool
}

func NewReactionWaiter() *ReactionWaiter {
	return &ReactionWaiter{}
}

// WaitForReaction registers a one-shot filtered wait. The returned function
// cancels the registration; cancelling a consumed or timed-out wait is a
// no-op.
func (w *ReactionWaiter) WaitForReaction(filter func(domain.Reaction) bool, action func(domain.Reaction),
	timeout time.Duration, onTimeout func()) func() {
	wait := &reactionWait{
		filter:    filter,
		action:    action,
		onTimeout: onTimeout,
	}

	w.mu.Lock()
	if timeout > 0 {
		wait.timer = time.AfterFunc(timeout, func() {
			if w.take(wait) && wait.onTimeout != nil {
				wait.onTimeout()
			}
		})
	}
	w.waits = append(w.waits, wait)
	w.mu.Unlock()

	return func() { w.take(wait) }
}

// Dispatch offers a reaction event to the registered waits. The first wait
// admitting it is consumed and its continuation runs on the caller's
// goroutine.
func (w *ReactionWaiter) Dispatch(r domain.Reaction) {
	w.mu.Lock()
	candidates := make([]*reactionWait, len(w.waits))
	copy(candidates, w.waits)
	w.mu.Unlock()

	for _, wait := range candidates {
		if !wait.filter(r) {
			continue
		}
		if w.take(wait) {
			wait.action(r)
			return
		}
	}
}

// take consumes the wait; it reports false if the wait was already consumed,
// timed out or cancelled.
func (w *ReactionWaiter) take(wait *reactionWait) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if wait.done {
		return false
	}
	wait.done = true

	if wait.timer != nil {
		wait.timer.Stop()
	}

	if i := slices.Index(w.waits, wait); i != -1 {
		w.waits = slices.Delete(w.waits, i, i+1)
	}

	return true
}

// Pending reports how many waits are currently armed.
func (w *ReactionWaiter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waits)
}
