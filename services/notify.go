package services

import (
	"encoding/json"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/utils/logger"

	"gorm.io/gorm"
)

// Notify persists a notification document for the client's notification list
// and pushes it to the user's websocket if one is connected. Dispatch is a
// best-effort side channel: a failure here never affects the financial write
// that triggered it.
func Notify(userID uint, tag, title, message string, boardID *uint) {
	n := models.Notification{
		UserID:  userID,
		Type:    tag,
		Title:   title,
		Message: message,
		BoardID: boardID,
	}
	if err := config.DB.Create(&n).Error; err != nil {
		logger.Errorf("[Notify] failed to store %s notification for user %d: %v", tag, userID, err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":         "notification",
		"notification": n,
	})
	if err != nil {
		return
	}
	PushToUser(userID, payload)
}

// MarkNotificationRead flips a notification's read flag.
func MarkNotificationRead(id uint) error {
	res := config.DB.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
