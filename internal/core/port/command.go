package port

import "botkit/internal/core/domain"

type CommandRegistry interface {
	// Resolve finds a registered command by name or alias the way dispatch
	// does; a miss is not an error.
	Resolve(name string) (*domain.Command, bool)
	// Commands returns a snapshot of the registered commands in order.
	Commands() []*domain.Command
}

type CommandListener interface {
	// OnCommand fires just before a resolved command runs. cmd is nil for the
	// built-in help invocation.
	OnCommand(ev *domain.CommandEvent, cmd *domain.Command)
	// OnCompletedCommand fires after help delivery has been issued.
	OnCompletedCommand(ev *domain.CommandEvent, cmd *domain.Command)
	// OnNonCommandMessage fires for every inbound message that did not
	// dispatch a command.
	OnNonCommandMessage(msg *domain.Message)
}
