package domain

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// Command is a registered chat command. It is immutable once handed to a
// registry; the registry indexes its name and aliases.
type Command struct {
	Name        string
	Aliases     []string
	Category    string
	Arguments   string
	Help        string
	OwnerOnly   bool
	CooldownKey string
	Cooldown    time.Duration
	Run         func(ctx context.Context, ev *CommandEvent) error
}

// IsCommandFor reports whether the command answers to the given name, matching
// the canonical name or any alias case-insensitively.
func (c *Command) IsCommandFor(name string) bool {
	if strings.EqualFold(c.Name, name) {
		return true
	}

	for _, alias := range c.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}

	return false
}

// SplitCommand splits message content that already had its prefix stripped
// into a command name and the remaining arguments. The split happens on the
// first run of whitespace; args is empty when there is none.
func SplitCommand(content string) (string, string) {
	content = strings.TrimSpace(content)

	idx := strings.IndexFunc(content, unicode.IsSpace)
	if idx == -1 {
		return content, ""
	}

	return content[:idx], strings.TrimLeftFunc(content[idx:], unicode.IsSpace)
}
