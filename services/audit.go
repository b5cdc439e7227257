package services

import (
	"udoy/models"

	"gorm.io/gorm"
)

// NotifyUser appends a notification inside the caller's transaction, so the
// message only survives if the triggering change commits.
func NotifyUser(tx *gorm.DB, userID uint, message string) error {
	return tx.Create(&models.Notification{UserID: userID, Message: message}).Error
}

// NotifyRole fans a notification out to every active user holding the role
func NotifyRole(tx *gorm.DB, role models.Role, message string) error {
	var ids []uint
	if err := tx.Model(&models.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Pluck("id", &ids).Error; err != nil {
		return err
	}

	for _, id := range ids {
		if err := NotifyUser(tx, id, message); err != nil {
			return err
		}
	}
	return nil
}

// RecordActivity appends an audit row inside the caller's transaction
func RecordActivity(tx *gorm.DB, actorID *uint, action, entityType string, entityID *uint, details string) error {
	return tx.Create(&models.ActivityLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}).Error
}
