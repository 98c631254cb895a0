// Package store — доступ к четырём коллекциям (клиенты, проекты с этапами,
// тикеты, заявки) и журналу аудита. Реализации: Memory и Gorm.
package store

import (
	"context"
	"errors"

	"agency-portal/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	CreateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	FindClientByAssignedID(ctx context.Context, assignedID string) (*models.Client, error)
	ClientAssignedIDExists(ctx context.Context, assignedID string) (bool, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, id string, upd models.ClientUpdate) (*models.Client, error)
	// DeleteClient удаляет клиента вместе с его проектами, этапами и тикетами.
	DeleteClient(ctx context.Context, id string) error

	// CreateProject сохраняет проект вместе с p.Stages.
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	// ListProjects: clientID == "" — все проекты; новые первыми, этапы всегда подгружены.
	ListProjects(ctx context.Context, clientID string) ([]models.Project, error)
	// UpdateStages перезаписывает статус и процент этапов проекта по имени.
	UpdateStages(ctx context.Context, projectID string, stages []models.Stage) error
	UpdateProjectAggregate(ctx context.Context, projectID string, agg models.ProjectAggregate) (*models.Project, error)

	CreateTicket(ctx context.Context, t *models.Ticket) error
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	ListTickets(ctx context.Context, clientID string) ([]models.Ticket, error)
	UpdateTicket(ctx context.Context, id string, upd models.TicketUpdate) (*models.Ticket, error)

	CreateSubmission(ctx context.Context, s *models.Submission) error
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	ListSubmissions(ctx context.Context, clientID string) ([]models.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error)

	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}
