// Package mpv drives an mpv subprocess over its JSON IPC socket. One mpv
// process is both the rendering window and the decode pipeline for a single
// display; everything above this package talks to it through Client.
package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// Client is a synchronous JSON IPC client for a running mpv process.
// Requests are serialized; asynchronous playback events arriving on the
// socket are discarded while waiting for a reply.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

type request struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type response struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
	Event     string          `json:"event"`
}

// Dial connects to the IPC socket at path, retrying until the socket
// appears or the timeout elapses. mpv creates the socket asynchronously
// after process start, so a few connection refusals are expected.
func Dial(path string, timeout time.Duration) (*Client, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", path)
		if err == nil {
			return &Client{conn: conn, reader: bufio.NewReader(conn), nextID: 1}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("mpv ipc socket %s: %w", path, err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// Command sends a raw mpv command and returns the data portion of the reply.
func (c *Client) Command(args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	payload, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		return nil, err
	}
	payload = append(payload, '\n')

	if err := c.conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("mpv ipc write: %w", err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mpv ipc read: %w", err)
		}

		var res response
		if err := json.Unmarshal(line, &res); err != nil {
			continue
		}
		if res.Event != "" || res.RequestID != id {
			// Playback event or a stale reply; not ours.
			continue
		}
		if res.Error != "success" {
			return nil, fmt.Errorf("mpv command %v: %s", args, res.Error)
		}
		return res.Data, nil
	}
}

// SetProperty sets one mpv property.
func (c *Client) SetProperty(name string, value any) error {
	_, err := c.Command("set_property", name, value)
	return err
}

// GetProperty reads one mpv property into out.
func (c *Client) GetProperty(name string, out any) error {
	data, err := c.Command("get_property", name)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Close closes the IPC connection. The mpv process is unaffected.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
