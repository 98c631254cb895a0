package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Actor    string `gorm:"size:64;not null" json:"actor"`  // "admin" или ID клиента
	Entity   string `gorm:"size:50;not null" json:"entity"` // "client", "project", "ticket", "submission"
	EntityID string `gorm:"type:varchar(36)" json:"entity_id"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "stage_update" и т.п.
	Details  string `gorm:"type:text" json:"details"`
}
