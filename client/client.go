package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8888"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the connection lifecycle: dial, pump stdin lines to the
// server, and render everything the server sends.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect to the chat server.
	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Debug("Closing connection...")
		_ = conn.Close()
	}()

	// 4. Render server traffic as it arrives. The nickname prompt carries
	// no newline, so this reads raw chunks instead of scanning lines.
	serverClosed := make(chan struct{})
	go func() {
		defer close(serverClosed)
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				render(string(buf[:n]))
			}
			if err != nil {
				return
			}
		}
	}()

	// 5. Pump stdin lines to the server until the user quits, the server
	// closes the connection, or a signal arrives.
	inputLines := make(chan string)
	go func() {
		defer close(inputLines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			inputLines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// Best effort: let the server announce the departure.
			_, _ = fmt.Fprint(conn, "/quit\n")
			return exitOK, nil
		case <-serverClosed:
			color.Yellow.Println("Disconnected from server")
			return exitOK, nil
		case line, ok := <-inputLines:
			if !ok {
				_, _ = fmt.Fprint(conn, "/quit\n")
				return exitOK, nil
			}
			if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
				return exitRuntime, fmt.Errorf("send failed: %w", err)
			}
		}
	}
}

// render colorizes one chunk of server output: prompts green, borders and
// banners cyan, join/quit announcements yellow, chat as-is.
func render(chunk string) {
	switch {
	case strings.HasPrefix(chunk, "> "):
		color.Green.Print(chunk)
	case strings.HasPrefix(chunk, "==="):
		color.Cyan.Print(chunk)
	case strings.Contains(chunk, "just joined") || strings.Contains(chunk, "just quit"):
		color.Yellow.Print(chunk)
	default:
		fmt.Print(chunk)
	}
}
