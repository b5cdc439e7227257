package models

import "gorm.io/gorm"

// ActivityLog is the append-only audit trail. ActorID is nil for actions the
// system performs on its own.
type ActivityLog struct {
	gorm.Model
	ActorID    *uint  `json:"actor_id" gorm:"index"`
	Action     string `json:"action" gorm:"not null;index"`
	EntityType string `json:"entity_type"`
	EntityID   *uint  `json:"entity_id"`
	Details    string `json:"details" gorm:"type:text"`
}
