package web

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snakearena/internal/codec"
	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Client frames are tiny envelopes.
	maxMessageSize = 1024

	// Events a client may fall behind before the oldest are dropped.
	eventBuffer = 16
)

// Client bridges one websocket connection and the room. It is registered
// as the room's session for the connection; the read pump feeds input to
// the room and the write pump drains room events to the socket.
type Client struct {
	*multiplayer.ChannelSession

	playerID string
	conn     *websocket.Conn
	codec    codec.Codec
	room     Arena
	logger   *log.Logger
	replies  chan ServerMessage
}

func newClient(conn *websocket.Conn, c codec.Codec, room Arena, playerID string, logger *log.Logger) *Client {
	id := multiplayer.NewSessionID()
	return &Client{
		ChannelSession: multiplayer.NewChannelSession(id, eventBuffer),
		playerID:       playerID,
		conn:           conn,
		codec:          c,
		room:           room,
		logger:         logger.With("session", id, "player", playerID),
		replies:        make(chan ServerMessage, 4),
	}
}

// readPump reads frames until the connection fails. Malformed frames are
// dropped without closing the connection.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "err", err)
			}
			return
		}

		var msg ClientMessage
		if err := c.codec.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("dropping malformed frame", "err", err)
			continue
		}

		if msg.Type == TypePing {
			select {
			case c.replies <- ServerMessage{Type: TypePong}:
			default:
			}
			continue
		}

		roomMsg, ok := msg.roomMessage(c.playerID)
		if !ok {
			c.logger.Debug("dropping frame", "type", msg.Type)
			continue
		}
		c.room.Send(roomMsg)
	}
}

// writePump writes room events and replies until the session ends or a
// write fails. It owns every write on the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.Close()
	}()

	for {
		select {
		case evt := <-c.Events():
			msg, ok := serverMessage(evt)
			if !ok {
				continue
			}
			if err := c.write(msg); err != nil {
				c.logger.Debug("write failed", "err", err)
				return
			}

		case msg := <-c.replies:
			if err := c.write(msg); err != nil {
				c.logger.Debug("write failed", "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) write(msg ServerMessage) error {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return err
	}

	frame := websocket.TextMessage
	if c.codec.Binary() {
		frame = websocket.BinaryMessage
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(frame, data)
}
