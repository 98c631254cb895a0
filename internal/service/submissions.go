package service

import (
	"context"
	"encoding/json"
	"strings"

	"agency-portal/internal/models"

	"gorm.io/datatypes"
)

// Допустимые переходы статуса заявки. Из archived выхода нет.
var submissionTransitions = map[models.SubmissionStatus][]models.SubmissionStatus{
	models.SubmissionPending:  {models.SubmissionReviewed, models.SubmissionArchived},
	models.SubmissionReviewed: {models.SubmissionArchived},
}

func canMoveSubmission(current, next models.SubmissionStatus) bool {
	for _, st := range submissionTransitions[current] {
		if st == next {
			return true
		}
	}
	return false
}

func (s *Service) validatePayload(ctx context.Context, clientID string, p models.Payload) error {
	switch v := p.(type) {
	case models.ProjectRequestPayload:
		if strings.TrimSpace(v.Service) == "" {
			return invalid("data.service", "is required")
		}
		if strings.TrimSpace(v.Details) == "" {
			return invalid("data.details", "is required")
		}
	case models.FeedbackPayload:
		if v.Rating < 1 || v.Rating > 5 {
			return invalid("data.rating", "must be between 1 and 5")
		}
		if v.ProjectID != "" {
			project, err := s.store.GetProject(ctx, v.ProjectID)
			if err != nil {
				return refErr("create submission", "data.project_id", err)
			}
			if project.ClientID != clientID {
				return invalid("data.project_id", "does not exist")
			}
		}
	case models.InquiryPayload:
		if strings.TrimSpace(v.Subject) == "" {
			return invalid("data.subject", "is required")
		}
		if strings.TrimSpace(v.Message) == "" {
			return invalid("data.message", "is required")
		}
	}
	return nil
}

// CreateSubmission принимает заявку клиента. Содержимое разбирается по типу,
// проверяется и больше не меняется; меняться может только статус.
func (s *Service) CreateSubmission(ctx context.Context, clientID string, typ models.SubmissionType, raw json.RawMessage) (*models.Submission, error) {
	payload, err := models.DecodePayload(typ, raw)
	if err != nil {
		if typ != models.SubmissionProjectRequest && typ != models.SubmissionFeedback && typ != models.SubmissionInquiry {
			return nil, invalid("type", "must be one of: project_request, feedback, inquiry")
		}
		return nil, invalid("data", err.Error())
	}

	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, refErr("create submission", "client_id", err)
	}
	if err := s.validatePayload(ctx, clientID, payload); err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, invalid("data", err.Error())
	}

	sub := &models.Submission{
		ClientID:    clientID,
		Type:        typ,
		Data:        datatypes.JSON(data),
		Status:      models.SubmissionPending,
		SubmittedAt: s.now(),
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, &StoreError{Op: "create submission", Err: err}
	}

	s.audit(ctx, "submission", sub.ID, "create", "Submission received: "+string(typ))
	return sub, nil
}

// SetSubmissionStatus продвигает заявку pending -> reviewed -> archived
// (pending -> archived тоже допустимо).
func (s *Service) SetSubmissionStatus(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error) {
	switch status {
	case models.SubmissionPending, models.SubmissionReviewed, models.SubmissionArchived:
	default:
		return nil, invalid("status", "must be one of: pending, reviewed, archived")
	}

	current, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, lookupErr("set submission status", "submission", id, err)
	}
	if !canMoveSubmission(current.Status, status) {
		return nil, &ConflictError{
			Entity:  "submission",
			ID:      id,
			Message: "cannot move from " + string(current.Status) + " to " + string(status),
		}
	}

	sub, err := s.store.UpdateSubmissionStatus(ctx, id, status)
	if err != nil {
		return nil, lookupErr("set submission status", "submission", id, err)
	}

	s.audit(ctx, "submission", id, "status_change", "Status changed to: "+string(status))
	return sub, nil
}

func (s *Service) ListSubmissions(ctx context.Context, clientID string) ([]models.Submission, error) {
	subs, err := s.store.ListSubmissions(ctx, clientID)
	if err != nil {
		return nil, &StoreError{Op: "list submissions", Err: err}
	}
	return subs, nil
}
