package tcpclient

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrClientClosed = errors.New("tcp client is closed")
	ErrFrameTooBig  = errors.New("response frame exceeds limit")
)

// Frames larger than this are treated as protocol corruption.
const maxFrameSize = 64 << 20

// Client is a pooled TCP client speaking a length-prefixed framing
// protocol: a big-endian uint32 size followed by the payload, in both
// directions.
type Client struct {
	address     string
	timeout     time.Duration
	connections chan net.Conn
	tlsConfig   *tls.Config
	logger      *zap.Logger

	mu     sync.Mutex
	closed bool
}

type Option func(*Client)

func WithTLS(config *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = config
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(address string, timeout time.Duration, poolSize int, opts ...Option) (*Client, error) {
	client := &Client{
		address:     address,
		timeout:     timeout,
		connections: make(chan net.Conn, poolSize),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	for i := 0; i < poolSize; i++ {
		conn, err := client.dial()
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to initialize connection pool: %w", err)
		}
		client.connections <- conn
	}

	return client, nil
}

func (c *Client) dial() (net.Conn, error) {
	dialer := &net.Dialer{Timeout: c.timeout}
	if c.tlsConfig != nil {
		return tls.DialWithDialer(dialer, "tcp", c.address, c.tlsConfig)
	}

	return dialer.Dial("tcp", c.address)
}

// Call sends one framed request and waits for the framed response. The
// connection is returned to the pool on success and replaced on failure.
func (c *Client) Call(ctx context.Context, payload []byte) ([]byte, error) {
	conn, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		c.discard(conn)
		return nil, err
	}

	if err := writeFrame(conn, payload); err != nil {
		c.discard(conn)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	response, err := readFrame(conn)
	if err != nil {
		c.discard(conn)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.release(conn)
	return response, nil
}

// release returns a healthy connection to the pool. A call finishing
// after Close drops the connection instead, so shutdown with requests in
// flight never sends on the closed pool channel.
func (c *Client) release(conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		conn.Close()
		return
	}

	select {
	case c.connections <- conn:
	default:
		conn.Close()
	}
}

func (c *Client) acquire(ctx context.Context) (net.Conn, error) {
	select {
	case conn, ok := <-c.connections:
		if !ok {
			return nil, ErrClientClosed
		}
		return conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// discard drops a failed connection and refills the pool with a fresh one
// so the pool size stays constant.
func (c *Client) discard(conn net.Conn) {
	conn.Close()

	fresh, err := c.dial()
	if err != nil {
		c.logger.Warn("failed to replace pooled connection", zap.Error(err))
		return
	}

	c.release(fresh)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	close(c.connections)
	for conn := range c.connections {
		conn.Close()
	}
}

func writeFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > maxFrameSize {
		return nil, ErrFrameTooBig
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	return payload, nil
}
