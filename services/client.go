package services

import (
	"encoding/json"
	"sync"

	"github.com/squarepicks/squares-backend/utils/logger"

	"github.com/gorilla/websocket"
)

type Client struct {
	userID uint
	conn   *websocket.Conn
	hub    *GameHub
	send   chan []byte
	once   sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("[Client %d] disconnected normally", c.userID)
			} else {
				logger.Debugf("[Client %d] read error: %v", c.userID, err)
			}
			return
		}

		var data map[string]any
		if err := json.Unmarshal(message, &data); err != nil {
			logger.Debugf("[Client %d] invalid message: %v", c.userID, err)
			continue
		}

		switch data["action"] {
		case "refresh":
			go BroadcastGameBoards(c.hub.GameID)
		default:
			logger.Debugf("[Client %d] unknown action: %v", c.userID, data["action"])
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("[Client %d] write error: %v", c.userID, err)
			return
		}
	}
}
