package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketPriority string
type TicketStatus string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"

	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in-progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

var (
	TicketPriorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	TicketStatuses   = []TicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}
)

type Ticket struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClientID  string         `gorm:"type:varchar(36);not null;index" json:"client_id"`
	ProjectID *string        `gorm:"type:varchar(36);index" json:"project_id,omitempty"`
	Subject   string         `gorm:"size:255;not null" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Priority  TicketPriority `gorm:"type:varchar(20);not null" json:"priority"`
	Status    TicketStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Response  *string        `gorm:"type:text" json:"response,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TicketUpdate — поля, которые может менять администратор.
type TicketUpdate struct {
	Status   *TicketStatus
	Response *string
}
