package service

import (
	"context"
	"strings"

	"agency-portal/internal/models"
)

type CreateTicketInput struct {
	ProjectID string
	Subject   string
	Message   string
	Priority  models.TicketPriority
}

func validPriority(p models.TicketPriority) bool {
	for _, v := range models.TicketPriorities {
		if v == p {
			return true
		}
	}
	return false
}

func validTicketStatus(st models.TicketStatus) bool {
	for _, v := range models.TicketStatuses {
		if v == st {
			return true
		}
	}
	return false
}

// CreateTicket — тикет от клиента. Проект, если указан, должен принадлежать клиенту.
func (s *Service) CreateTicket(ctx context.Context, clientID string, in CreateTicketInput) (*models.Ticket, error) {
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	if subject == "" {
		return nil, invalid("subject", "is required")
	}
	if message == "" {
		return nil, invalid("message", "is required")
	}
	if !validPriority(priority) {
		return nil, invalid("priority", "must be one of: low, medium, high, urgent")
	}

	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, refErr("create ticket", "client_id", err)
	}

	var projectID *string
	if pid := strings.TrimSpace(in.ProjectID); pid != "" {
		p, err := s.store.GetProject(ctx, pid)
		if err != nil {
			return nil, refErr("create ticket", "project_id", err)
		}
		if p.ClientID != clientID {
			return nil, invalid("project_id", "does not exist")
		}
		projectID = &pid
	}

	now := s.now()
	ticket := &models.Ticket{
		ClientID:  clientID,
		ProjectID: projectID,
		Subject:   subject,
		Message:   message,
		Priority:  priority,
		Status:    models.TicketOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return nil, &StoreError{Op: "create ticket", Err: err}
	}

	s.audit(ctx, "ticket", ticket.ID, "create", "Ticket opened: "+ticket.Subject)
	return ticket, nil
}

// SetTicketStatus — администратор может выставить любой статус из списка.
func (s *Service) SetTicketStatus(ctx context.Context, id string, status models.TicketStatus) (*models.Ticket, error) {
	if !validTicketStatus(status) {
		return nil, invalid("status", "must be one of: open, in-progress, resolved, closed")
	}

	ticket, err := s.store.UpdateTicket(ctx, id, models.TicketUpdate{Status: &status})
	if err != nil {
		return nil, lookupErr("set ticket status", "ticket", id, err)
	}

	s.audit(ctx, "ticket", id, "status_change", "Status changed to: "+string(status))
	return ticket, nil
}

// RespondToTicket записывает ответ и всегда переводит тикет в resolved.
func (s *Service) RespondToTicket(ctx context.Context, id, response string) (*models.Ticket, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, invalid("response", "is required")
	}

	resolved := models.TicketResolved
	ticket, err := s.store.UpdateTicket(ctx, id, models.TicketUpdate{Status: &resolved, Response: &response})
	if err != nil {
		return nil, lookupErr("respond to ticket", "ticket", id, err)
	}

	s.audit(ctx, "ticket", id, "response", "Response recorded")
	return ticket, nil
}

func (s *Service) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	t, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, lookupErr("get ticket", "ticket", id, err)
	}
	return t, nil
}

func (s *Service) ListTickets(ctx context.Context, clientID string) ([]models.Ticket, error) {
	tickets, err := s.store.ListTickets(ctx, clientID)
	if err != nil {
		return nil, &StoreError{Op: "list tickets", Err: err}
	}
	return tickets, nil
}
