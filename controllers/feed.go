package controllers

import (
	"errors"
	"net/http"

	"github.com/squarepicks/squares-backend/services"

	"github.com/gin-gonic/gin"
)

// PushScoreUpdate accepts a manually-pushed score snapshot and runs it
// through the same ingestion pipeline as the scheduled poller. This is the
// ops/testing path; it works even when the live-update kill switch is set.
func PushScoreUpdate(c *gin.Context) {
	var update services.ScoreUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.ProcessScoreUpdate(update); err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
