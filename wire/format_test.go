package wire

import (
	"netchat/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrompt_HasNoTrailingNewline(t *testing.T) {
	req := require.New(t)
	req.Equal("> Choose your nickname: ", Prompt)
}

func TestWelcome_ContainsBannerAndCount(t *testing.T) {
	req := require.New(t)
	banner := Welcome("alice", 1)

	req.Contains(banner, "Welcome alice!\r\n")
	req.Contains(banner, "There are 1 user(s) here beside you\r\n")
	req.Contains(banner, " - /list will list all the connected users\r\n")
	req.Contains(banner, " - /quit will disconnect you\r\n")
	req.True(strings.HasPrefix(banner, "===\r\n"))
	req.True(strings.HasSuffix(banner, "===\r\n"))
}

func TestAnnouncements(t *testing.T) {
	req := require.New(t)
	req.Equal("bob just joined\r\n", Join("bob"))
	req.Equal("bob just quit\r\n", Quit("bob"))
	req.Equal("[bob]: hi\r\n", Chat("bob", "hi"))
	// Empty lines are valid chat content.
	req.Equal("[bob]: \r\n", Chat("bob", ""))
}

func TestListing_KeepsOrderAndTagsRequester(t *testing.T) {
	req := require.New(t)
	listing := Listing([]domain.ListEntry{
		{Nickname: "bob"},
		{Nickname: "alice", You: true},
		{Nickname: "carol"},
	})

	expected := "===\r\n" +
		"Currently connected users:\r\n" +
		" - bob\r\n" +
		" - alice (you)\r\n" +
		" - carol\r\n" +
		"===\r\n"
	req.Equal(expected, listing)
}
