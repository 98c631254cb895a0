package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-portal/internal/models"
	"agency-portal/internal/progress"
)

type CreateProjectInput struct {
	ClientID    string
	Title       string
	Description string
	Lead        string
	StartDate   time.Time
}

//
// СОЗДАНИЕ ПРОЕКТА
//

// CreateProject создаёт проект с шестью этапами в состоянии 0% / pending.
// Список проектов клиента строится по client_id, отдельной записи в клиента не требуется.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, invalid("client_id", "is required")
	}

	client, err := s.store.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, refErr("create project", "client_id", err)
	}

	now := s.now()
	start := in.StartDate
	if start.IsZero() {
		start = now
	}

	project := &models.Project{
		ClientID:    client.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Lead:        strings.TrimSpace(in.Lead),
		Stages:      progress.InitialStages(),
		StartDate:   start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range project.Stages {
		project.Stages[i].CreatedAt = now
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, &StoreError{Op: "create project", Err: err}
	}

	s.audit(ctx, "project", project.ID, "create", "Project created: "+project.Title)
	return project, nil
}

//
// ПРОГРЕСС ЭТАПОВ
//

// UpdateStageProgress выставляет процент выполнения одного этапа и пересчитывает
// total_progress / is_completed / end_date. end_date ставится при переходе
// в завершённое состояние и сбрасывается, если проект снова стал незавершённым.
func (s *Service) UpdateStageProgress(ctx context.Context, projectID, stageName string, pct int) (*models.Project, error) {
	unlock := s.locks.lock(projectID)
	defer unlock()

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, lookupErr("update stage progress", "project", projectID, err)
	}

	stages, found, err := progress.ApplyStageUpdate(project.Stages, stageName, pct)
	if errors.Is(err, progress.ErrInvalidPercentage) {
		return nil, invalid("completion_percentage", "must be between 0 and 100")
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invalid("stage", fmt.Sprintf("unknown stage %q", stageName))
	}

	var changed []models.Stage
	for _, st := range stages {
		if st.Name == stageName {
			changed = append(changed, st)
		}
	}
	if err := s.store.UpdateStages(ctx, projectID, changed); err != nil {
		return nil, writeErr("update stage progress", "project", projectID, err)
	}

	// агрегат считаем по тому, что реально лежит в хранилище
	current, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, lookupErr("update stage progress", "project", projectID, err)
	}

	agg := progress.ComputeAggregate(current.Stages)
	update := models.ProjectAggregate{
		TotalProgress: agg.TotalProgress,
		IsCompleted:   agg.IsCompleted,
	}
	if agg.IsCompleted {
		update.EndDate = current.EndDate
		if !current.IsCompleted || update.EndDate == nil {
			now := s.now()
			update.EndDate = &now
		}
	}

	updated, err := s.store.UpdateProjectAggregate(ctx, projectID, update)
	if err != nil {
		return nil, writeErr("update stage progress", "project", projectID, err)
	}

	s.audit(ctx, "project", projectID, "stage_update",
		fmt.Sprintf("%s: %d%% (total %d%%)", stageName, pct, updated.TotalProgress))
	return updated, nil
}

// MarkProjectComplete переводит все этапы в 100% и завершает проект.
// Повторный вызов не меняет end_date.
func (s *Service) MarkProjectComplete(ctx context.Context, projectID string) (*models.Project, error) {
	unlock := s.locks.lock(projectID)
	defer unlock()

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, lookupErr("complete project", "project", projectID, err)
	}

	stages := progress.MarkAllComplete(project.Stages)
	if err := s.store.UpdateStages(ctx, projectID, stages); err != nil {
		return nil, writeErr("complete project", "project", projectID, err)
	}

	end := project.EndDate
	if !project.IsCompleted || end == nil {
		now := s.now()
		end = &now
	}

	updated, err := s.store.UpdateProjectAggregate(ctx, projectID, models.ProjectAggregate{
		TotalProgress: 100,
		IsCompleted:   true,
		EndDate:       end,
	})
	if err != nil {
		return nil, writeErr("complete project", "project", projectID, err)
	}

	s.audit(ctx, "project", projectID, "complete", "Project marked complete")
	return updated, nil
}

//
// ЧТЕНИЕ
//

// ListProjects: clientID == "" — все проекты. Новые первыми, этапы подгружены.
func (s *Service) ListProjects(ctx context.Context, clientID string) ([]models.Project, error) {
	projects, err := s.store.ListProjects(ctx, clientID)
	if err != nil {
		return nil, &StoreError{Op: "list projects", Err: err}
	}
	return projects, nil
}

func (s *Service) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, lookupErr("get project", "project", projectID, err)
	}
	return p, nil
}

// GetClientProject отдаёт проект только его владельцу; чужой проект выглядит как отсутствующий.
func (s *Service) GetClientProject(ctx context.Context, clientID, projectID string) (*models.Project, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.ClientID != clientID {
		return nil, &NotFoundError{Entity: "project", ID: projectID}
	}
	return p, nil
}
