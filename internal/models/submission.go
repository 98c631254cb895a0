package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionType string
type SubmissionStatus string

const (
	SubmissionProjectRequest SubmissionType = "project_request"
	SubmissionFeedback       SubmissionType = "feedback"
	SubmissionInquiry        SubmissionType = "inquiry"

	SubmissionPending  SubmissionStatus = "pending"
	SubmissionReviewed SubmissionStatus = "reviewed"
	SubmissionArchived SubmissionStatus = "archived"
)

type Submission struct {
	ID          string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClientID    string           `gorm:"type:varchar(36);not null;index" json:"client_id"`
	Type        SubmissionType   `gorm:"type:varchar(32);not null" json:"type"`
	Data        datatypes.JSON   `json:"data"`
	Status      SubmissionStatus `gorm:"type:varchar(20);not null" json:"status"`
	SubmittedAt time.Time        `gorm:"not null" json:"submitted_at"`
}

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Payload — содержимое заявки; конкретный тип определяется Submission.Type.
type Payload interface {
	SubmissionType() SubmissionType
}

type ProjectRequestPayload struct {
	Service  string `json:"service"`
	Budget   string `json:"budget,omitempty"`
	Timeline string `json:"timeline,omitempty"`
	Details  string `json:"details"`
}

type FeedbackPayload struct {
	ProjectID string `json:"project_id,omitempty"`
	Rating    int    `json:"rating"`
	Comments  string `json:"comments"`
}

type InquiryPayload struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (ProjectRequestPayload) SubmissionType() SubmissionType { return SubmissionProjectRequest }
func (FeedbackPayload) SubmissionType() SubmissionType       { return SubmissionFeedback }
func (InquiryPayload) SubmissionType() SubmissionType        { return SubmissionInquiry }

// DecodePayload разбирает сырой JSON в структуру, соответствующую типу заявки.
// Неизвестные поля отклоняются.
func DecodePayload(t SubmissionType, raw []byte) (Payload, error) {
	var p Payload
	switch t {
	case SubmissionProjectRequest:
		var v ProjectRequestPayload
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		p = v
	case SubmissionFeedback:
		var v FeedbackPayload
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		p = v
	case SubmissionInquiry:
		var v InquiryPayload
		if err := strictUnmarshal(raw, &v); err != nil {
			return nil, err
		}
		p = v
	default:
		return nil, fmt.Errorf("unknown submission type %q", t)
	}
	return p, nil
}

// Payload возвращает типизированное содержимое заявки.
func (s *Submission) Payload() (Payload, error) {
	return DecodePayload(s.Type, s.Data)
}

func strictUnmarshal(raw []byte, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("payload is empty")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
