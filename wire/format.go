// Package wire builds the literal text of every server-to-client message.
// The strings are part of the wire contract for line-oriented test clients
// and must be reproduced verbatim.
package wire

import (
	"fmt"
	"netchat/domain"
	"strings"

	"github.com/samber/lo"
)

const crlf = "\r\n"

// Prompt is sent once per handshake attempt, without a trailing newline so
// the client cursor stays on the same line.
const Prompt = "> Choose your nickname: "

// Welcome builds the banner sent to a freshly registered session.
// others is the number of users connected beside the newcomer.
func Welcome(nickname string, others int) string {
	lines := []string{
		"===",
		fmt.Sprintf("Welcome %s!", nickname),
		"",
		fmt.Sprintf("There are %d user(s) here beside you", others),
		"",
		"Help:",
		" - Type anything to chat",
		" - /list will list all the connected users",
		" - /quit will disconnect you",
		"===",
	}
	return block(lines)
}

func Join(nickname string) string {
	return fmt.Sprintf("%s just joined", nickname) + crlf
}

func Quit(nickname string) string {
	return fmt.Sprintf("%s just quit", nickname) + crlf
}

func Chat(nickname, message string) string {
	return fmt.Sprintf("[%s]: %s", nickname, message) + crlf
}

// Listing builds the bordered /list response. Entries arrive in registry
// insertion order and are rendered in that order.
func Listing(entries []domain.ListEntry) string {
	rows := lo.Map(entries, func(entry domain.ListEntry, _ int) string {
		row := fmt.Sprintf(" - %s", entry.Nickname)
		if entry.You {
			row += " (you)"
		}
		return row
	})

	lines := make([]string, 0, len(rows)+3)
	lines = append(lines, "===", "Currently connected users:")
	lines = append(lines, rows...)
	lines = append(lines, "===")
	return block(lines)
}

func block(lines []string) string {
	return strings.Join(lines, crlf) + crlf
}
