package e2e

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"netchat/observability"
	"netchat/runtime"
	"netchat/runtime/workers"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// target returns the address of the server under test: an external one when
// SERVER_ADDR is set, otherwise a fresh in-process instance.
func target(t *testing.T, cfg Config) string {
	t.Helper()
	if cfg.ServerAddr != "" {
		return cfg.ServerAddr
	}

	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelInfo)
	stats := observability.NewStats()
	registry := runtime.NewRegistry(log, stats)
	worker := workers.NewServerWorker(log, registry, stats, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			req.NoError(err)
		case <-time.After(2 * time.Second):
			req.Fail("server did not stop")
		}
	})

	var addr net.Addr
	req.Eventually(func() bool {
		addr = worker.Addr()
		return addr != nil
	}, time.Second, 10*time.Millisecond)
	return addr.String()
}

type chatClient struct {
	t       *testing.T
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
}

func dial(t *testing.T, addr string, timeout time.Duration) *chatClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, timeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &chatClient{t: t, conn: conn, reader: bufio.NewReader(conn), timeout: timeout}
}

func (c *chatClient) send(line string) {
	c.t.Helper()
	_, err := fmt.Fprintf(c.conn, "%s\n", line)
	require.NoError(c.t, err)
}

func (c *chatClient) readLine() string {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(c.timeout)))
	line, err := c.reader.ReadString('\n')
	require.NoError(c.t, err)
	return strings.TrimRight(line, "\r\n")
}

// expectPrompt consumes the nickname prompt, which has no newline.
func (c *chatClient) expectPrompt() {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(c.timeout)))
	var sb strings.Builder
	buf := make([]byte, 1)
	for !strings.HasSuffix(sb.String(), ": ") {
		_, err := c.reader.Read(buf)
		require.NoError(c.t, err)
		sb.WriteByte(buf[0])
	}
	require.Equal(c.t, "> Choose your nickname: ", sb.String())
}

// readBlock consumes one ===-bordered block and returns its inner lines.
func (c *chatClient) readBlock() []string {
	c.t.Helper()
	var lines []string
	borders := 0
	for borders < 2 {
		line := c.readLine()
		if line == "===" {
			borders++
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// TestScenario_BobAndAlice walks the full protocol over real TCP:
// handshake, welcome count, join announcement, chat, quit, listing.
func TestScenario_BobAndAlice(t *testing.T) {
	req := require.New(t)
	cfg, err := LoadConfig()
	req.NoError(err)
	addr := target(t, cfg)

	// Given bob is connected
	bob := dial(t, addr, cfg.IOTimeout)
	bob.expectPrompt()
	bob.send("bob")
	bobWelcome := strings.Join(bob.readBlock(), "\n")
	req.Contains(bobWelcome, "Welcome bob!")
	req.Contains(bobWelcome, "There are 0 user(s) here beside you")

	// When alice connects
	alice := dial(t, addr, cfg.IOTimeout)
	alice.expectPrompt()
	alice.send("alice")
	aliceWelcome := strings.Join(alice.readBlock(), "\n")
	req.Contains(aliceWelcome, "Welcome alice!")
	req.Contains(aliceWelcome, "There are 1 user(s) here beside you")

	// Then bob is told about it
	req.Equal("alice just joined", bob.readLine())

	// When alice chats
	alice.send("hi")
	req.Equal("[alice]: hi", bob.readLine())

	// And alice asks for the listing, in insertion order with her own tag
	alice.send("/list")
	req.Equal([]string{
		"Currently connected users:",
		" - bob",
		" - alice (you)",
	}, alice.readBlock())

	// When alice quits
	alice.send("/quit")
	req.Equal("alice just quit", bob.readLine())

	// Then a later listing only shows bob
	bob.send("/list")
	req.Equal([]string{
		"Currently connected users:",
		" - bob (you)",
	}, bob.readBlock())
}

// TestScenario_BlankNicknameIsReprompted checks that a blank identity is
// never admitted: the server keeps prompting.
func TestScenario_BlankNicknameIsReprompted(t *testing.T) {
	req := require.New(t)
	cfg, err := LoadConfig()
	req.NoError(err)
	addr := target(t, cfg)

	client := dial(t, addr, cfg.IOTimeout)
	client.expectPrompt()
	client.send("   ")
	client.expectPrompt()
	client.send("carol")
	welcome := strings.Join(client.readBlock(), "\n")
	req.Contains(welcome, "Welcome carol!")

	client.send("/quit")
}
