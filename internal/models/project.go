package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in-progress"
	StageCompleted  StageStatus = "completed"
)

// Фиксированный набор этапов, в порядке выполнения.
const (
	StageRequirements = "Requirements Analysis"
	StageDesign       = "Design & Prototyping"
	StageDevelopment  = "Development"
	StageTesting      = "Testing & QA"
	StageDeployment   = "Deployment"
	StageHandover     = "Handover & Training"
)

var StageNames = []string{
	StageRequirements,
	StageDesign,
	StageDevelopment,
	StageTesting,
	StageDeployment,
	StageHandover,
}

type Project struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClientID    string `gorm:"type:varchar(36);not null;index" json:"client_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Lead        string `gorm:"size:255" json:"lead,omitempty"`

	Stages        []Stage `gorm:"constraint:OnDelete:CASCADE" json:"stages"`
	TotalProgress int     `gorm:"not null;default:0" json:"total_progress"`
	IsCompleted   bool    `gorm:"not null;default:false" json:"is_completed"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Stage хранится в project_stages; идентичность внутри проекта — имя.
type Stage struct {
	ID                   string      `gorm:"type:varchar(36);primaryKey" json:"-"`
	ProjectID            string      `gorm:"type:varchar(36);not null;index" json:"-"`
	Name                 string      `gorm:"size:64;not null" json:"name"`
	Status               StageStatus `gorm:"type:varchar(20);not null" json:"status"`
	CompletionPercentage int         `gorm:"not null;default:0" json:"completion_percentage"`
	SortOrder            int         `gorm:"not null" json:"-"`
	CreatedAt            time.Time   `json:"-"`
}

func (Stage) TableName() string {
	return "project_stages"
}

func (s *Stage) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ProjectAggregate — производные поля проекта, записываемые после пересчёта.
type ProjectAggregate struct {
	TotalProgress int
	IsCompleted   bool
	EndDate       *time.Time
}
