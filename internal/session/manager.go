package session

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/wire"
)

// Manager handles client registration and hands each client its engine.
type Manager struct {
	mu         sync.RWMutex
	clients    map[uint64]*Client
	bufferSize int
	newEngine  func() *randgen.Engine

	served  uint64
	dropped uint64
}

// Stats is a point-in-time view of the session layer.
type Stats struct {
	Clients int    `json:"clients"`
	Served  uint64 `json:"served"`
	Dropped uint64 `json:"dropped"`
}

// NewManager creates a session manager. newEngine supplies each client's
// private engine; nil selects randgen.NewFast.
func NewManager(bufferSize int, newEngine func() *randgen.Engine) *Manager {
	if newEngine == nil {
		newEngine = randgen.NewFast
	}
	return &Manager{
		clients:    make(map[uint64]*Client),
		bufferSize: bufferSize,
		newEngine:  newEngine,
	}
}

// Register adds a new client. Returns the client for further use.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := NewClient(conn, m.bufferSize, m.newEngine())

	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()

	remote := ""
	if conn != nil {
		remote = conn.RemoteAddr().String()
	}
	logger.Info("client connected", "client", c.ID, "remote", remote)
	return c
}

// Unregister removes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()

	atomic.AddUint64(&m.served, atomic.LoadUint64(&c.Served))
	atomic.AddUint64(&m.dropped, atomic.LoadUint64(&c.Dropped))
	c.Close()
	logger.Info("client disconnected", "client", c.ID, "served", atomic.LoadUint64(&c.Served))
}

// SendBatch encodes b in the client's format and enqueues it.
func (m *Manager) SendBatch(c *Client, b *wire.Batch) bool {
	var (
		data []byte
		err  error
	)
	switch c.Format() {
	case FormatBinary:
		data, err = wire.EncodeBinary(b)
	default:
		data, err = wire.EncodeJSON(b)
	}
	if err != nil {
		logger.Error(err, "encode batch", "client", c.ID, "kind", b.Kind.String())
		return false
	}
	return c.Send(data)
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Stats sums the counters of past and present clients.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{
		Clients: len(m.clients),
		Served:  atomic.LoadUint64(&m.served),
		Dropped: atomic.LoadUint64(&m.dropped),
	}
	for _, c := range m.clients {
		s.Served += atomic.LoadUint64(&c.Served)
		s.Dropped += atomic.LoadUint64(&c.Dropped)
	}
	return s
}

// CloseAll disconnects every client, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		c.Close()
	}
}
