package service

import (
	"testing"

	"agency-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTicket(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := WithActor(adminCtx(), "client-1")

	p, err := svc.CreateProject(adminCtx(), CreateProjectInput{ClientID: "client-1", Title: "Site"})
	require.NoError(t, err)

	tk, err := svc.CreateTicket(ctx, "client-1", CreateTicketInput{
		ProjectID: p.ID,
		Subject:   " Broken form ",
		Message:   "Contact form returns 500",
		Priority:  models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, "Broken form", tk.Subject)
	assert.Equal(t, models.TicketOpen, tk.Status)
	assert.Equal(t, models.PriorityHigh, tk.Priority)
	require.NotNil(t, tk.ProjectID)
	assert.Equal(t, p.ID, *tk.ProjectID)
	assert.Nil(t, tk.Response)

	plain, err := svc.CreateTicket(ctx, "client-1", CreateTicketInput{Subject: "Question", Message: "When?"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, plain.Priority)
	assert.Nil(t, plain.ProjectID)
}

func TestCreateTicket_Validation(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := adminCtx()
	require.NoError(t, mem.CreateClient(ctx, &models.Client{ID: "client-2", AssignedID: "BLU-0001", Name: "Blue", Email: "b@example.com"}))
	foreign, err := svc.CreateProject(ctx, CreateProjectInput{ClientID: "client-2", Title: "Theirs"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		clientID string
		in       CreateTicketInput
		field    string
	}{
		{"no subject", "client-1", CreateTicketInput{Message: "m"}, "subject"},
		{"no message", "client-1", CreateTicketInput{Subject: "s"}, "message"},
		{"bad priority", "client-1", CreateTicketInput{Subject: "s", Message: "m", Priority: "critical"}, "priority"},
		{"unknown client", "client-404", CreateTicketInput{Subject: "s", Message: "m"}, "client_id"},
		{"unknown project", "client-1", CreateTicketInput{Subject: "s", Message: "m", ProjectID: "nope"}, "project_id"},
		{"foreign project", "client-1", CreateTicketInput{Subject: "s", Message: "m", ProjectID: foreign.ID}, "project_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTicket(ctx, tt.clientID, tt.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRespondToTicket_AlwaysResolves(t *testing.T) {
	for _, start := range models.TicketStatuses {
		t.Run(string(start), func(t *testing.T) {
			svc, _, _ := newTestService(t)
			ctx := adminCtx()

			tk, err := svc.CreateTicket(ctx, "client-1", CreateTicketInput{Subject: "s", Message: "m"})
			require.NoError(t, err)
			_, err = svc.SetTicketStatus(ctx, tk.ID, start)
			require.NoError(t, err)

			got, err := svc.RespondToTicket(ctx, tk.ID, "Fixed in the latest deploy")
			require.NoError(t, err)
			assert.Equal(t, models.TicketResolved, got.Status)
			require.NotNil(t, got.Response)
			assert.Equal(t, "Fixed in the latest deploy", *got.Response)
		})
	}
}

func TestTicketStatus_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := adminCtx()
	tk, err := svc.CreateTicket(ctx, "client-1", CreateTicketInput{Subject: "s", Message: "m"})
	require.NoError(t, err)

	var ve *ValidationError
	_, err = svc.SetTicketStatus(ctx, tk.ID, "done")
	assert.ErrorAs(t, err, &ve)

	_, err = svc.RespondToTicket(ctx, tk.ID, "   ")
	assert.ErrorAs(t, err, &ve)

	var nf *NotFoundError
	_, err = svc.SetTicketStatus(ctx, "missing", models.TicketClosed)
	assert.ErrorAs(t, err, &nf)
	_, err = svc.RespondToTicket(ctx, "missing", "hi")
	assert.ErrorAs(t, err, &nf)

	// любые переходы разрешены, в том числе назад
	closed, err := svc.SetTicketStatus(ctx, tk.ID, models.TicketClosed)
	require.NoError(t, err)
	assert.Equal(t, models.TicketClosed, closed.Status)
	reopened, err := svc.SetTicketStatus(ctx, tk.ID, models.TicketOpen)
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, reopened.Status)
}
