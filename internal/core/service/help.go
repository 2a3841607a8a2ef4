package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"botkit/internal/core/domain"
)

// HelpFunc renders the help document for a given invocation.
type HelpFunc func(ev *domain.CommandEvent) string

// SplitFunc chunks an outbound text so every piece fits a single message.
type SplitFunc func(text string) []string

// BuildHelp renders the default help document: commands grouped by category
// with their prefix, argument hint and help line. Owner-only commands are
// listed only when includeOwner is set.
func BuildHelp(botName, textPrefix string, commands []*domain.Command, includeOwner bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** commands:\n", botName)

	category := ""
	headerPrinted := false
	for _, cmd := range commands {
		if cmd.OwnerOnly && !includeOwner {
			continue
		}

		if !headerPrinted || cmd.Category != category {
			category = cmd.Category
			name := category
			if name == "" {
				name = "No Category"
			}
			fmt.Fprintf(&b, "\n\n  __%s__:\n", name)
			headerPrinted = true
		}

		fmt.Fprintf(&b, "\n`%s%s", textPrefix, cmd.Name)
		if cmd.Arguments != "" {
			fmt.Fprintf(&b, " %s", cmd.Arguments)
		}
		fmt.Fprintf(&b, "` - %s", cmd.Help)
	}

	return b.String()
}

// SplitMessage chunks text into pieces of at most limit bytes, preferring to
// break on a newline.
func SplitMessage(text string, limit int) []string {
	var chunks []string

	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			// back a byte cut up to a rune boundary so no chunk carries a
			// torn multi-byte character
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}

	if text != "" || len(chunks) == 0 {
		chunks = append(chunks, text)
	}

	return chunks
}
