package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"agency-portal/internal/models"
	"agency-portal/internal/store"
)

const maxCodeAttempts = 20

var assignedIDPattern = regexp.MustCompile(`^[A-Z]{2,5}-\d{4}$`)

type CreateClientInput struct {
	Name    string
	Email   string
	Company string
	// AssignedID — код входа; пустой — сгенерировать из названия.
	AssignedID string
}

type UpdateClientInput struct {
	Name    *string
	Email   *string
	Company *string
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "must be a valid e-mail address")
	}
	return nil
}

// codePrefix — первые три латинские буквы названия в верхнем регистре, добитые "X".
func codePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

func (s *Service) generateAssignedID(ctx context.Context, name string) (string, error) {
	prefix := codePrefix(name)
	for i := 0; i < maxCodeAttempts; i++ {
		code := fmt.Sprintf("%s-%04d", prefix, s.digit()%10000)
		exists, err := s.store.ClientAssignedIDExists(ctx, code)
		if err != nil {
			return "", &StoreError{Op: "generate client code", Err: err}
		}
		if !exists {
			return code, nil
		}
	}
	return "", &StoreError{
		Op:  "generate client code",
		Err: fmt.Errorf("no free code with prefix %s after %d attempts", prefix, maxCodeAttempts),
	}
}

//
// СОЗДАНИЕ / РЕДАКТИРОВАНИЕ
//

func (s *Service) CreateClient(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	code := strings.TrimSpace(in.AssignedID)

	if name == "" {
		return nil, invalid("name", "is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if code != "" {
		if !assignedIDPattern.MatchString(code) {
			return nil, invalid("assigned_id", "must look like ABC-1234")
		}
		exists, err := s.store.ClientAssignedIDExists(ctx, code)
		if err != nil {
			return nil, &StoreError{Op: "create client", Err: err}
		}
		if exists {
			return nil, invalid("assigned_id", "is already taken")
		}
	} else {
		var err error
		if code, err = s.generateAssignedID(ctx, name); err != nil {
			return nil, err
		}
	}

	now := s.now()
	client := &models.Client{
		AssignedID: code,
		Name:       name,
		Email:      email,
		Company:    strings.TrimSpace(in.Company),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, invalid("assigned_id", "is already taken")
		}
		return nil, &StoreError{Op: "create client", Err: err}
	}

	s.audit(ctx, "client", client.ID, "create", "Client created: "+client.Name+" ("+client.AssignedID+")")
	return client, nil
}

func (s *Service) UpdateClient(ctx context.Context, id string, in UpdateClientInput) (*models.Client, error) {
	var upd models.ClientUpdate
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		upd.Name = &name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		upd.Email = &email
	}
	if in.Company != nil {
		company := strings.TrimSpace(*in.Company)
		upd.Company = &company
	}

	client, err := s.store.UpdateClient(ctx, id, upd)
	if err != nil {
		return nil, lookupErr("update client", "client", id, err)
	}

	s.audit(ctx, "client", id, "update", "Client updated: "+client.Name)
	return client, nil
}

// DeleteClient удаляет клиента вместе с проектами и тикетами. Заявки остаются.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return lookupErr("delete client", "client", id, err)
	}
	s.audit(ctx, "client", id, "delete", "Client deleted")
	return nil
}

//
// ЧТЕНИЕ
//

func (s *Service) GetClient(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, lookupErr("get client", "client", id, err)
	}
	return c, nil
}

func (s *Service) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list clients", Err: err}
	}
	return clients, nil
}
