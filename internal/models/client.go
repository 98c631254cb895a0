package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	AssignedID string    `gorm:"size:16;uniqueIndex;not null" json:"assigned_id"` // код входа в портал, например RED-1234
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Company    string    `gorm:"size:255" json:"company,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Projects []Project `gorm:"constraint:OnDelete:CASCADE" json:"projects,omitempty"`
	Tickets  []Ticket  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ClientUpdate — частичное обновление; nil означает "не трогать".
type ClientUpdate struct {
	Name    *string
	Email   *string
	Company *string
}
