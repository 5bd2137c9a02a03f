package session

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/merkator/randgen/internal/randgen"
)

// Format represents the client's preferred encoding format.
type Format int

const (
	FormatJSON   Format = 0
	FormatBinary Format = 1
)

// Client represents a connected WebSocket client. Each client draws from
// its own engine, touched only by the client's read pump.
type Client struct {
	ID   uint64
	Conn *websocket.Conn

	mu     sync.RWMutex
	format Format

	gen *randgen.Engine
	seq uint64

	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// stats
	Served  uint64
	Dropped uint64
}

var clientIDCounter uint64

// NewClient creates a new client wrapping a WebSocket connection.
func NewClient(conn *websocket.Conn, bufferSize int, gen *randgen.Engine) *Client {
	return &Client{
		ID:     atomic.AddUint64(&clientIDCounter, 1),
		Conn:   conn,
		format: FormatJSON,
		gen:    gen,
		sendCh: make(chan []byte, bufferSize),
		done:   make(chan struct{}),
	}
}

// Format returns the client's current encoding format.
func (c *Client) Format() Format {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.format
}

// SetFormat sets the client's encoding format.
func (c *Client) SetFormat(f Format) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.format = f
}

// nextSeq numbers the client's batches from 1.
func (c *Client) nextSeq() uint64 {
	c.seq++
	return c.seq
}

// Send enqueues data to be sent to the client.
// Returns false if the buffer is full (message dropped).
func (c *Client) Send(data []byte) bool {
	select {
	case c.sendCh <- data:
		atomic.AddUint64(&c.Served, 1)
		return true
	default:
		atomic.AddUint64(&c.Dropped, 1)
		return false
	}
}

// SendCh returns the send channel for the write pump.
func (c *Client) SendCh() <-chan []byte {
	return c.sendCh
}

// Done returns a channel that is closed when the client is disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close terminates the client connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}
