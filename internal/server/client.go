package server

import (
	"combat-meter/internal/network"
	"combat-meter/pkg/api"
	"combat-meter/pkg/logger"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и Broadcaster/Control
type Client struct {
	Hub     *network.Broadcaster
	Control Control
	Conn    *websocket.Conn
	ID      uuid.UUID
	Send    chan api.ServerEvent
}

// NewClient сразу подписывает клиента на события, чтобы ничего не потерять до старта пампов
func NewClient(hub *network.Broadcaster, control Control, conn *websocket.Conn) *Client {
	id, ch := hub.Register()
	return &Client{
		Hub:     hub,
		Control: control,
		Conn:    conn,
		ID:      id,
		Send:    ch,
	}
}

// readPump читает команды управления от клиента
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
		logger.Log.WithField("client", c.ID.String()).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	logger.Log.WithField("client", c.ID.String()).Info("Client connected")

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		if err := c.Control.Handle(cmd); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"client": c.ID.String(),
				"event":  cmd.Event,
			}).Warn("Command rejected")
		}
	}
}

// writePump отправляет события клиенту + Ping.
// Первым сообщением уходит последний снимок энкаунтера, если он есть.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	if last, ok := c.Hub.LastSnapshot(); ok {
		if err := c.write(api.ServerEvent{Event: api.EventEncounterUpdate, Payload: last}); err != nil {
			return
		}
	}

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					logger.Log.WithError(err).Warn("failed to set write deadline")
				}
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.write(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (c *Client) write(msg api.ServerEvent) error {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set write deadline")
	}
	if err := c.Conn.WriteJSON(msg); err != nil {
		logger.Log.WithError(err).Debug("write json message failed")
		return err
	}
	return nil
}
