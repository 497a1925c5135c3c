package cli

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/mcoot/tictacgame-go/internal/protocol"
)

// Client is one persistent connection to the game server.
type Client struct {
	conn   net.Conn
	reader *bufio.Scanner
}

// Dial connects to the server.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	return &Client{
		conn:   conn,
		reader: bufio.NewScanner(conn),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send writes one message to the server.
func (c *Client) Send(signifier int, fields ...any) error {
	if _, err := c.conn.Write([]byte(protocol.Encode(signifier, fields...) + "\n")); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Recv blocks until the next server message arrives, or the deadline passes
// when timeout is positive.
func (c *Client) Recv(timeout time.Duration) (protocol.Message, error) {
	if timeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	} else {
		_ = c.conn.SetReadDeadline(time.Time{})
	}

	if !c.reader.Scan() {
		if err := c.reader.Err(); err != nil {
			return protocol.Message{}, fmt.Errorf("receive: %w", err)
		}
		return protocol.Message{}, fmt.Errorf("server closed the connection")
	}

	return protocol.Parse(c.reader.Text())
}
