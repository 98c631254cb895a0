package store_test

import (
	"context"
	"testing"
	"time"

	"agency-portal/internal/database"
	"agency-portal/internal/models"
	"agency-portal/internal/progress"
	"agency-portal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func backends(t *testing.T) map[string]func(t *testing.T) store.Store {
	return map[string]func(t *testing.T) store.Store{
		"memory": func(t *testing.T) store.Store {
			return store.NewMemory()
		},
		"gorm-sqlite": func(t *testing.T) store.Store {
			db, err := database.OpenSQLite(":memory:")
			require.NoError(t, err)
			require.NoError(t, database.Migrate(db))
			t.Cleanup(func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			})
			return store.NewGorm(db)
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s store.Store)) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func seedClient(t *testing.T, s store.Store, code, name string) *models.Client {
	t.Helper()
	c := &models.Client{AssignedID: code, Name: name, Email: name + "@example.com"}
	require.NoError(t, s.CreateClient(context.Background(), c))
	require.NotEmpty(t, c.ID)
	return c
}

func seedProject(t *testing.T, s store.Store, clientID, title string, created time.Time) *models.Project {
	t.Helper()
	p := &models.Project{
		ClientID:  clientID,
		Title:     title,
		Stages:    progress.InitialStages(),
		StartDate: created,
		CreatedAt: created,
	}
	require.NoError(t, s.CreateProject(context.Background(), p))
	require.NotEmpty(t, p.ID)
	return p
}

func TestClients(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		bravo := seedClient(t, s, "BRA-0001", "bravo")
		seedClient(t, s, "ALP-0001", "alpha")

		got, err := s.GetClient(ctx, bravo.ID)
		require.NoError(t, err)
		assert.Equal(t, "BRA-0001", got.AssignedID)

		found, err := s.FindClientByAssignedID(ctx, "BRA-0001")
		require.NoError(t, err)
		assert.Equal(t, bravo.ID, found.ID)

		_, err = s.FindClientByAssignedID(ctx, "bra-0001")
		assert.ErrorIs(t, err, store.ErrNotFound)

		exists, err := s.ClientAssignedIDExists(ctx, "ALP-0001")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = s.ClientAssignedIDExists(ctx, "ZZZ-9999")
		require.NoError(t, err)
		assert.False(t, exists)

		list, err := s.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "alpha", list[0].Name)
		assert.Equal(t, "bravo", list[1].Name)

		company := "Bravo LLC"
		upd, err := s.UpdateClient(ctx, bravo.ID, models.ClientUpdate{Company: &company})
		require.NoError(t, err)
		assert.Equal(t, "Bravo LLC", upd.Company)
		assert.Equal(t, "bravo", upd.Name)

		_, err = s.GetClient(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.UpdateClient(ctx, "missing", models.ClientUpdate{Company: &company})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDuplicateAssignedID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		seedClient(t, s, "DUP-0001", "first")

		err := s.CreateClient(context.Background(), &models.Client{AssignedID: "DUP-0001", Name: "second", Email: "x@example.com"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestProjectsWithStages(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		c1 := seedClient(t, s, "ONE-0001", "one")
		c2 := seedClient(t, s, "TWO-0001", "two")

		older := seedProject(t, s, c1.ID, "older", base)
		newer := seedProject(t, s, c1.ID, "newer", base.Add(time.Hour))
		seedProject(t, s, c2.ID, "other", base.Add(2*time.Hour))

		got, err := s.GetProject(ctx, older.ID)
		require.NoError(t, err)
		require.Len(t, got.Stages, 6)
		for i, st := range got.Stages {
			assert.Equal(t, models.StageNames[i], st.Name)
			assert.Equal(t, models.StagePending, st.Status)
		}

		all, err := s.ListProjects(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "other", all[0].Title)

		mine, err := s.ListProjects(ctx, c1.ID)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, newer.ID, mine[0].ID)
		assert.Equal(t, older.ID, mine[1].ID)
		for _, p := range mine {
			assert.Len(t, p.Stages, 6)
		}

		client, err := s.GetClient(ctx, c1.ID)
		require.NoError(t, err)
		assert.Len(t, client.Projects, 2)
	})
}

func TestUpdateStagesAndAggregate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		c := seedClient(t, s, "AGG-0001", "agg")
		p := seedProject(t, s, c.ID, "site", base)

		stages, found, err := progress.ApplyStageUpdate(p.Stages, models.StageDesign, 30)
		require.NoError(t, err)
		require.True(t, found)
		require.NoError(t, s.UpdateStages(ctx, p.ID, stages))

		end := base.Add(48 * time.Hour)
		updated, err := s.UpdateProjectAggregate(ctx, p.ID, models.ProjectAggregate{TotalProgress: 5, IsCompleted: true, EndDate: &end})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.TotalProgress)
		assert.True(t, updated.IsCompleted)
		require.NotNil(t, updated.EndDate)
		assert.True(t, end.Equal(*updated.EndDate))
		assert.Equal(t, 30, updated.Stages[1].CompletionPercentage)
		assert.Equal(t, models.StageInProgress, updated.Stages[1].Status)
		assert.Equal(t, 0, updated.Stages[0].CompletionPercentage)

		cleared, err := s.UpdateProjectAggregate(ctx, p.ID, models.ProjectAggregate{TotalProgress: 5})
		require.NoError(t, err)
		assert.False(t, cleared.IsCompleted)
		assert.Nil(t, cleared.EndDate)

		assert.ErrorIs(t, s.UpdateStages(ctx, "missing", stages), store.ErrNotFound)
		_, err = s.UpdateProjectAggregate(ctx, "missing", models.ProjectAggregate{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStoreReturnsCopies(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		c := seedClient(t, s, "CPY-0001", "copy")
		p := seedProject(t, s, c.ID, "site", base)

		got, err := s.GetProject(ctx, p.ID)
		require.NoError(t, err)
		got.Stages[0].CompletionPercentage = 99

		again, err := s.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Stages[0].CompletionPercentage)
	})
}

func TestTickets(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		c := seedClient(t, s, "TCK-0001", "tickets")
		other := seedClient(t, s, "TCK-0002", "others")

		first := &models.Ticket{ClientID: c.ID, Subject: "first", Message: "m", Priority: models.PriorityLow, Status: models.TicketOpen, CreatedAt: base}
		second := &models.Ticket{ClientID: c.ID, Subject: "second", Message: "m", Priority: models.PriorityHigh, Status: models.TicketOpen, CreatedAt: base.Add(time.Minute)}
		foreign := &models.Ticket{ClientID: other.ID, Subject: "foreign", Message: "m", Priority: models.PriorityLow, Status: models.TicketOpen, CreatedAt: base}
		for _, tk := range []*models.Ticket{first, second, foreign} {
			require.NoError(t, s.CreateTicket(ctx, tk))
		}

		list, err := s.ListTickets(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Subject)

		all, err := s.ListTickets(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		resolved := models.TicketResolved
		resp := "fixed"
		upd, err := s.UpdateTicket(ctx, first.ID, models.TicketUpdate{Status: &resolved, Response: &resp})
		require.NoError(t, err)
		assert.Equal(t, models.TicketResolved, upd.Status)
		require.NotNil(t, upd.Response)
		assert.Equal(t, "fixed", *upd.Response)
		assert.Equal(t, "first", upd.Subject)

		_, err = s.UpdateTicket(ctx, "missing", models.TicketUpdate{Status: &resolved})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSubmissions(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		c := seedClient(t, s, "SUB-0001", "subs")

		sub := &models.Submission{
			ClientID:    c.ID,
			Type:        models.SubmissionInquiry,
			Data:        datatypes.JSON(`{"subject":"hi","message":"hello"}`),
			Status:      models.SubmissionPending,
			SubmittedAt: base,
		}
		require.NoError(t, s.CreateSubmission(ctx, sub))

		got, err := s.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		payload, err := got.Payload()
		require.NoError(t, err)
		assert.Equal(t, models.InquiryPayload{Subject: "hi", Message: "hello"}, payload)

		upd, err := s.UpdateSubmissionStatus(ctx, sub.ID, models.SubmissionReviewed)
		require.NoError(t, err)
		assert.Equal(t, models.SubmissionReviewed, upd.Status)

		list, err := s.ListSubmissions(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = s.UpdateSubmissionStatus(ctx, "missing", models.SubmissionArchived)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDeleteClientCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		gone := seedClient(t, s, "DEL-0001", "gone")
		kept := seedClient(t, s, "DEL-0002", "kept")

		p := seedProject(t, s, gone.ID, "doomed", base)
		seedProject(t, s, kept.ID, "safe", base)
		require.NoError(t, s.CreateTicket(ctx, &models.Ticket{ClientID: gone.ID, Subject: "s", Message: "m", Priority: models.PriorityLow, Status: models.TicketOpen}))

		require.NoError(t, s.DeleteClient(ctx, gone.ID))

		_, err := s.GetClient(ctx, gone.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetProject(ctx, p.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		tickets, err := s.ListTickets(ctx, gone.ID)
		require.NoError(t, err)
		assert.Empty(t, tickets)

		all, err := s.ListProjects(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "safe", all[0].Title)

		assert.ErrorIs(t, s.DeleteClient(ctx, gone.ID), store.ErrNotFound)
	})
}

func TestAuditLogs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s store.Store) {
		ctx := context.Background()
		for i, action := range []string{"create", "stage_update", "complete"} {
			require.NoError(t, s.CreateAuditLog(ctx, &models.AuditLog{
				Actor:     "admin",
				Entity:    "project",
				EntityID:  "p1",
				Action:    action,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		logs, err := s.ListAuditLogs(ctx, 2)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "complete", logs[0].Action)
		assert.Equal(t, "stage_update", logs[1].Action)
	})
}
