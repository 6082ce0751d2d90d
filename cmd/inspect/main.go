// Command inspect is a one-shot operator tool: it joins the chat server
// under a throwaway nickname, asks for the user listing, renders it as a
// table, and quits.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	ServerAddress string        `env:"CHAT_SERVER_ADDR,default=localhost:8888"`
	DialTimeout   time.Duration `env:"DIAL_TIMEOUT,default=5s"`
}

const listingBorder = "==="

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inspect error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	conn, err := net.DialTimeout("tcp", config.ServerAddress, config.DialTimeout)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", config.ServerAddress, err)
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Handshake: wait for the prompt (no trailing newline), answer with a
	// throwaway identity, then skip the welcome banner.
	if _, err := reader.ReadString(':'); err != nil {
		return fmt.Errorf("no nickname prompt: %w", err)
	}
	nickname := "inspector-" + uuid.NewString()[:8]
	if _, err := fmt.Fprintf(conn, "%s\n", nickname); err != nil {
		return err
	}
	if err := skipBlock(reader); err != nil {
		return fmt.Errorf("welcome banner not received: %w", err)
	}

	// Request and parse the listing.
	if _, err := fmt.Fprint(conn, "/list\n"); err != nil {
		return err
	}
	rows, err := readListing(reader)
	if err != nil {
		return fmt.Errorf("listing not received: %w", err)
	}

	// The inspector itself appears in the listing; drop its own row.
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Nickname"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	n := 0
	for _, row := range rows {
		if strings.HasSuffix(row, " (you)") {
			continue
		}
		n++
		table.Append([]string{strconv.Itoa(n), row})
	}
	table.Render()
	fmt.Printf("%d connected user(s)\n", n)

	_, _ = fmt.Fprint(conn, "/quit\n")
	return nil
}

// skipBlock consumes lines until a ===-bordered block has fully passed.
func skipBlock(reader *bufio.Reader) error {
	borders := 0
	for borders < 2 {
		line, err := readLine(reader)
		if err != nil {
			return err
		}
		if line == listingBorder {
			borders++
		}
	}
	return nil
}

// readListing collects the " - <nickname>" rows of the next bordered block,
// ignoring any chat or announcement lines interleaved before it.
func readListing(reader *bufio.Reader) ([]string, error) {
	var rows []string
	inBlock := false
	for {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		if line == listingBorder {
			if inBlock {
				return rows, nil
			}
			inBlock = true
			continue
		}
		if inBlock && strings.HasPrefix(line, " - ") {
			rows = append(rows, strings.TrimPrefix(line, " - "))
		}
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
