package domain

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultIndexThreshold is the command count up to which resolution scans the
// live command list instead of consulting the index. Small sets dodge the
// index bookkeeping and keep per-command matching flexible; past this size
// the map lookup wins.
const DefaultIndexThreshold = 20

// CommandRegistry holds the ordered command list together with a lowercase
// name/alias index into it. The pair is only ever mutated through Add, AddAt
// and Remove, which update both under one lock so readers never observe the
// list and the index out of sync.
type CommandRegistry struct {
	mu        sync.RWMutex
	commands  []*Command
	index     map[string]int
	threshold int
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		index:     make(map[string]int),
		threshold: DefaultIndexThreshold,
	}
}

// SetIndexThreshold overrides the linear-scan cutoff. Intended for wiring at
// startup, before dispatch traffic arrives.
func (r *CommandRegistry) SetIndexThreshold(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threshold = n
}

// Add registers the command at the end of the list.
func (r *CommandRegistry) Add(cmd *Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addAt(cmd, len(r.commands))
}

// AddAt registers the command at the given position, shifting every command
// at or past it up by one. Valid positions are [0, size].
func (r *CommandRegistry) AddAt(cmd *Command, pos int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addAt(cmd, pos)
}

func (r *CommandRegistry) addAt(cmd *Command, pos int) error {
	if pos < 0 || pos > len(r.commands) {
		return fmt.Errorf("%w: %d/%d", ErrIndexOutOfRange, pos, len(r.commands))
	}

	keys := make([]string, 0, len(cmd.Aliases)+1)
	keys = append(keys, strings.ToLower(cmd.Name))
	for _, alias := range cmd.Aliases {
		keys = append(keys, strings.ToLower(alias))
	}

	// validate every key before touching anything, a rejected call must not
	// leave partial state behind
	for _, key := range keys {
		if _, ok := r.index[key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
	}

	if pos < len(r.commands) {
		for _, key := range r.indexKeys() {
			if r.index[key] >= pos {
				r.index[key]++
			}
		}
	}

	for _, key := range keys {
		r.index[key] = pos
	}
	r.commands = slices.Insert(r.commands, pos, cmd)

	log.Info().Str("command", cmd.Name).Int("position", pos).Msg("adding command to registry")

	return nil
}

// Remove unregisters the command answering to name, dropping its name and all
// of its aliases from the index and shifting later positions down by one.
func (r *CommandRegistry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	for _, key := range r.indexKeys() {
		switch {
		case r.index[key] == pos:
			delete(r.index, key)
		case r.index[key] > pos:
			r.index[key]--
		}
	}
	r.commands = slices.Delete(r.commands, pos, pos+1)

	log.Info().Str("command", name).Int("position", pos).Msg("removing command from registry")

	return nil
}

// Lookup resolves a name or alias through the index, case-insensitively.
// A miss is not an error.
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}

	return r.commands[pos], true
}

// Resolve finds the command answering to name the way dispatch does: a linear
// scan with each command's own matching predicate while the registry is at or
// below the threshold, the index above it.
func (r *CommandRegistry) Resolve(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.commands) <= r.threshold {
		for _, cmd := range r.commands {
			if cmd.IsCommandFor(name) {
				return cmd, true
			}
		}
		return nil, false
	}

	pos, ok := r.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}

	return r.commands[pos], true
}

// Commands returns a snapshot of the registered commands in order.
func (r *CommandRegistry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Command, len(r.commands))
	copy(out, r.commands)

	return out
}

func (r *CommandRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// indexKeys snapshots the index keys so callers can mutate the map while
// walking it.
func (r *CommandRegistry) indexKeys() []string {
	keys := make([]string, 0, len(r.index))
	for key := range r.index {
		keys = append(keys, key)
	}

	return keys
}
