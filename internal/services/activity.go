package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/models"
	"gorm.io/gorm"
)

// logActivity appends one entry to a group's activity feed.
func logActivity(tx *gorm.DB, groupID, userID uuid.UUID, actionType string, targetID *string, metadata map[string]interface{}) error {
	activity := models.Activity{
		GroupID:    groupID,
		UserID:     userID,
		ActionType: actionType,
		TargetID:   targetID,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			activity.Metadata = &s
		}
	}

	return tx.Create(&activity).Error
}
