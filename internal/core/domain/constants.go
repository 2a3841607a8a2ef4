package domain

import "errors"

// Reaction affordances shared by the interactive-menu family.
const (
	ReactionPrev = "◀"
	ReactionStop = "⏹"
	ReactionNext = "▶"
)

// MessageLimit is the maximum length of a single outbound message.
const MessageLimit = 2000

var (
	ErrDuplicateKey    = errors.New("name or alias already indexed")
	ErrNotFound        = errors.New("name not indexed")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoPages         = errors.New("slideshow has no pages")
)
