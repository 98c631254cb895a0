package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodePayload(t *testing.T) {
	p, err := DecodePayload(SubmissionProjectRequest, []byte(`{"service":"SEO","budget":"5k","details":"audit"}`))
	require.NoError(t, err)
	req, ok := p.(ProjectRequestPayload)
	require.True(t, ok)
	assert.Equal(t, "SEO", req.Service)
	assert.Equal(t, SubmissionProjectRequest, req.SubmissionType())

	p, err = DecodePayload(SubmissionFeedback, []byte(`{"rating":4,"comments":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, FeedbackPayload{Rating: 4, Comments: "ok"}, p)

	p, err = DecodePayload(SubmissionInquiry, []byte(`{"subject":"Hi","message":"Question"}`))
	require.NoError(t, err)
	assert.Equal(t, InquiryPayload{Subject: "Hi", Message: "Question"}, p)
}

func TestDecodePayload_Rejects(t *testing.T) {
	tests := []struct {
		name string
		typ  SubmissionType
		raw  string
	}{
		{"unknown type", "complaint", `{}`},
		{"empty payload", SubmissionInquiry, `  `},
		{"unknown field", SubmissionFeedback, `{"rating":3,"mood":"sad"}`},
		{"wrong field type", SubmissionFeedback, `{"rating":"five"}`},
		{"not an object", SubmissionInquiry, `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(tt.typ, []byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestSubmissionPayload(t *testing.T) {
	sub := Submission{
		Type: SubmissionInquiry,
		Data: datatypes.JSON(`{"subject":"Pricing","message":"How much?"}`),
	}
	p, err := sub.Payload()
	require.NoError(t, err)
	assert.Equal(t, "Pricing", p.(InquiryPayload).Subject)
}

func TestBeforeCreateAssignsID(t *testing.T) {
	c := Client{}
	require.NoError(t, c.BeforeCreate(nil))
	assert.Len(t, c.ID, 36)

	s := Submission{ID: "keep"}
	require.NoError(t, s.BeforeCreate(nil))
	assert.Equal(t, "keep", s.ID)
}
