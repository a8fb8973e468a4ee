package services

import (
	"net/http"
	"strconv"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket subscribes a user to live board updates for one game.
func HandleWebSocket(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var game models.Game
	if err := config.DB.First(&game, uint(gameID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	userIDStr := c.Query("user")
	if userIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user query param"})
		return
	}
	userID64, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uint(userID64)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	hub := HubForGame(game.ID)
	client := &Client{
		userID: user.ID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, 32),
	}
	logger.Infof("[WS] new client: userID=%d, game=%d", user.ID, game.ID)

	hub.addClient(client)
}
