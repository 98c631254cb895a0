package store

import (
	"context"
	"errors"

	"agency-portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm — хранилище поверх любой СУБД, для которой есть диалект gorm.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func orderedStages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc")
}

//
// КЛИЕНТЫ
//

func (s *Gorm) CreateClient(ctx context.Context, c *models.Client) error {
	exists, err := s.ClientAssignedIDExists(ctx, c.AssignedID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (s *Gorm) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Projects.Stages", orderedStages).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Gorm) FindClientByAssignedID(ctx context.Context, assignedID string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).Where("assigned_id = ?", assignedID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Gorm) ClientAssignedIDExists(ctx context.Context, assignedID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Client{}).
		Where("assigned_id = ?", assignedID).
		Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *Gorm) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("name asc").Find(&clients).Error; err != nil {
		return nil, translate(err)
	}
	return clients, nil
}

func (s *Gorm) UpdateClient(ctx context.Context, id string, upd models.ClientUpdate) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.Company != nil {
		fields["company"] = *upd.Company
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&c).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return s.GetClient(ctx, id)
}

func (s *Gorm) DeleteClient(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Client
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		projectIDs := tx.Model(&models.Project{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("project_id IN (?)", projectIDs).Delete(&models.Stage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Ticket{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

//
// ПРОЕКТЫ
//

func (s *Gorm) CreateProject(ctx context.Context, p *models.Project) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *Gorm) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).
		Preload("Stages", orderedStages).
		First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Gorm) ListProjects(ctx context.Context, clientID string) ([]models.Project, error) {
	dbq := s.db.WithContext(ctx).Preload("Stages", orderedStages).Order("created_at desc")
	if clientID != "" {
		dbq = dbq.Where("client_id = ?", clientID)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		return nil, translate(err)
	}
	return projects, nil
}

func (s *Gorm) UpdateStages(ctx context.Context, projectID string, stages []models.Stage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		for _, st := range stages {
			err := tx.Model(&models.Stage{}).
				Where("project_id = ? AND name = ?", projectID, st.Name).
				Updates(map[string]any{
					"status":                st.Status,
					"completion_percentage": st.CompletionPercentage,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Gorm) UpdateProjectAggregate(ctx context.Context, projectID string, agg models.ProjectAggregate) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, "id = ?", projectID).Error; err != nil {
		return nil, translate(err)
	}

	// map, чтобы gorm записал и false, и NULL
	err := s.db.WithContext(ctx).Model(&p).Updates(map[string]any{
		"total_progress": agg.TotalProgress,
		"is_completed":   agg.IsCompleted,
		"end_date":       agg.EndDate,
	}).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.GetProject(ctx, projectID)
}

//
// ТИКЕТЫ
//

func (s *Gorm) CreateTicket(ctx context.Context, t *models.Ticket) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *Gorm) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	var t models.Ticket
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Gorm) ListTickets(ctx context.Context, clientID string) ([]models.Ticket, error) {
	dbq := s.db.WithContext(ctx).Order("created_at desc")
	if clientID != "" {
		dbq = dbq.Where("client_id = ?", clientID)
	}

	var tickets []models.Ticket
	if err := dbq.Find(&tickets).Error; err != nil {
		return nil, translate(err)
	}
	return tickets, nil
}

func (s *Gorm) UpdateTicket(ctx context.Context, id string, upd models.TicketUpdate) (*models.Ticket, error) {
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	if upd.Response != nil {
		fields["response"] = *upd.Response
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(t).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return s.GetTicket(ctx, id)
}

//
// ЗАЯВКИ
//

func (s *Gorm) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	return translate(s.db.WithContext(ctx).Create(sub).Error)
}

func (s *Gorm) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (s *Gorm) ListSubmissions(ctx context.Context, clientID string) ([]models.Submission, error) {
	dbq := s.db.WithContext(ctx).Order("submitted_at desc")
	if clientID != "" {
		dbq = dbq.Where("client_id = ?", clientID)
	}

	var subs []models.Submission
	if err := dbq.Find(&subs).Error; err != nil {
		return nil, translate(err)
	}
	return subs, nil
}

func (s *Gorm) UpdateSubmissionStatus(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(sub).Update("status", status).Error; err != nil {
		return nil, translate(err)
	}
	return s.GetSubmission(ctx, id)
}

//
// АУДИТ
//

func (s *Gorm) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return translate(s.db.WithContext(ctx).Create(l).Error)
}

func (s *Gorm) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	dbq := s.db.WithContext(ctx).Order("created_at desc").Order("id desc")
	if limit > 0 {
		dbq = dbq.Limit(limit)
	}

	var logs []models.AuditLog
	if err := dbq.Find(&logs).Error; err != nil {
		return nil, translate(err)
	}
	return logs, nil
}
