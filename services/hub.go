package services

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/utils/logger"

	"gorm.io/gorm"
)

// GameHub fans board-state updates out to the websocket clients watching one
// game. The engine itself only commits atomic writes; the hub is the
// downstream observer channel the client's snapshot listeners map onto.
type GameHub struct {
	GameID  uint
	mu      sync.RWMutex
	clients map[uint]*Client // keyed by userID
}

var (
	hubs   = make(map[uint]*GameHub)
	hubsMu sync.Mutex
)

// HubForGame returns the hub for a game, creating it on first use.
func HubForGame(gameID uint) *GameHub {
	hubsMu.Lock()
	defer hubsMu.Unlock()

	h, ok := hubs[gameID]
	if !ok {
		h = &GameHub{
			GameID:  gameID,
			clients: make(map[uint]*Client),
		}
		hubs[gameID] = h
	}
	return h
}

func (h *GameHub) addClient(c *Client) {
	h.mu.Lock()
	if old, ok := h.clients[c.userID]; ok {
		old.Close()
	}
	h.clients[c.userID] = c
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()

	logger.Infof("[Game %d] user %d watching (total=%d)", h.GameID, c.userID, h.clientCount())
	go BroadcastGameBoards(h.GameID)
}

// removeClient drops a client from the hub. The entry is removed only if it
// still points at this client; a reconnect replaces the map entry before the
// old pump's teardown runs, and that teardown must not evict the new client.
func (h *GameHub) removeClient(c *Client) {
	h.mu.Lock()
	if h.clients[c.userID] == c {
		delete(h.clients, c.userID)
	}
	h.mu.Unlock()
	c.Close()
}

func (h *GameHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends a payload to every watcher, dropping messages for clients
// whose send buffer is full rather than blocking the engine.
func (h *GameHub) broadcast(payload []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			logger.Debugf("[Game %d] dropping msg to user %d", h.GameID, c.userID)
		}
	}
}

// notifyUser delivers a payload to a single watcher, if connected.
func (h *GameHub) notifyUser(userID uint, payload []byte) bool {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case client.send <- payload:
		return true
	default:
		return false
	}
}

// BroadcastBoard pushes one board's current state to its game's watchers.
func BroadcastBoard(boardID uint) {
	var board models.Board
	if err := config.DB.First(&board, boardID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Errorf("[Hub] failed to load board %d for broadcast: %v", boardID, err)
		}
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":  "board_state",
		"board": board,
	})
	if err != nil {
		return
	}
	HubForGame(board.GameID).broadcast(payload)
}

// BroadcastGameBoards pushes every board on a game to its watchers.
func BroadcastGameBoards(gameID uint) {
	var boards []models.Board
	if err := config.DB.Where("game_id = ?", gameID).Find(&boards).Error; err != nil {
		logger.Errorf("[Hub] failed to load boards for game %d: %v", gameID, err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":   "boards_state",
		"gameId": gameID,
		"boards": boards,
	})
	if err != nil {
		return
	}
	HubForGame(gameID).broadcast(payload)
}

// PushToUser delivers a payload to a user on whichever game hubs they are
// connected to.
func PushToUser(userID uint, payload []byte) {
	hubsMu.Lock()
	all := make([]*GameHub, 0, len(hubs))
	for _, h := range hubs {
		all = append(all, h)
	}
	hubsMu.Unlock()

	for _, h := range all {
		h.notifyUser(userID, payload)
	}
}
