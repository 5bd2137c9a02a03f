package session

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/merkator/randgen/internal/logger"
	"github.com/merkator/randgen/internal/randgen"
	"github.com/merkator/randgen/internal/sample"
	"github.com/merkator/randgen/internal/wire"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler creates the HTTP handler for WebSocket upgrades.
func Handler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := mgr.Register(conn)

		// Start read and write pumps
		go writePump(client)
		go readPump(client, mgr)
	}
}

// readPump processes incoming control messages from the client. It is the
// only goroutine that touches the client's engine.
func readPump(c *Client, mgr *Manager) {
	defer mgr.Unregister(c)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("client read error", "client", c.ID, "error", err)
			}
			return
		}

		if !gjson.ValidBytes(message) {
			logger.Debug("client sent invalid JSON", "client", c.ID)
			continue
		}
		handleControl(c, mgr, gjson.ParseBytes(message))
	}
}

// handleControl processes a parsed control message.
func handleControl(c *Client, mgr *Manager, ctrl gjson.Result) {
	switch action := ctrl.Get("action").String(); action {
	case "draw":
		req, err := parseDraw(ctrl)
		var b wire.Batch
		if err != nil {
			b = wire.ErrorBatch(c.nextSeq(), err)
		} else {
			b = req.Draw(c.gen, c.nextSeq())
		}
		mgr.SendBatch(c, &b)

	case "format":
		switch f := ctrl.Get("format").String(); f {
		case "binary":
			c.SetFormat(FormatBinary)
			logger.Debug("client switched format", "client", c.ID, "format", f)
		case "json":
			c.SetFormat(FormatJSON)
			logger.Debug("client switched format", "client", c.ID, "format", f)
		default:
			logger.Debug("client sent unknown format", "client", c.ID, "format", f)
		}

	case "seed":
		seed := ctrl.Get("seed")
		if seed.Type != gjson.Number {
			logger.Debug("client sent seed without a number", "client", c.ID)
			return
		}
		if s := seed.Int(); s != 0 {
			c.gen = randgen.NewFastSeeded(s)
		} else {
			c.gen = mgr.newEngine()
		}
		c.seq = 0
		logger.Debug("client reseeded", "client", c.ID, "seed", seed.Int())

	default:
		logger.Debug("client sent unknown action", "client", c.ID, "action", action)
	}
}

// parseDraw builds a request from a draw message such as
// {"action":"draw","kind":"int","count":5,"min":1,"max":6}.
func parseDraw(ctrl gjson.Result) (sample.Request, error) {
	req := sample.New(ctrl.Get("kind").String())
	var err error
	ctrl.ForEach(func(key, value gjson.Result) bool {
		switch k := key.String(); k {
		case "action", "kind":
		default:
			err = req.Set(k, value.String())
		}
		return err == nil
	})
	if err != nil {
		return sample.Request{}, err
	}
	return req, req.Validate()
}

// writePump sends messages from the send channel to the WebSocket.
func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendCh():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			msgType := websocket.TextMessage
			if c.Format() == FormatBinary {
				msgType = websocket.BinaryMessage
			}

			if err := c.Conn.WriteMessage(msgType, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done():
			return
		}
	}
}
