package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"agency-portal/internal/models"

	"github.com/google/uuid"
)

// Memory — хранилище в памяти процесса. Наружу всегда отдаются копии.
type Memory struct {
	mu sync.RWMutex

	seq         uint64
	order       map[string]uint64 // порядок вставки, для стабильной сортировки
	clients     map[string]models.Client
	projects    map[string]models.Project
	tickets     map[string]models.Ticket
	submissions map[string]models.Submission
	audit       []models.AuditLog
}

func NewMemory() *Memory {
	return &Memory{
		order:       map[string]uint64{},
		clients:     map[string]models.Client{},
		projects:    map[string]models.Project{},
		tickets:     map[string]models.Ticket{},
		submissions: map[string]models.Submission{},
	}
}

func (m *Memory) nextSeq(id string) {
	m.seq++
	m.order[id] = m.seq
}

// newerFirst сортирует по времени создания, при равенстве — по порядку вставки.
func (m *Memory) newerFirst(ids []string, at func(string) time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		ti, tj := at(ids[i]), at(ids[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return m.order[ids[i]] > m.order[ids[j]]
	})
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}

func copyProject(p models.Project) models.Project {
	p.Stages = append([]models.Stage(nil), p.Stages...)
	if p.EndDate != nil {
		end := *p.EndDate
		p.EndDate = &end
	}
	return p
}

func copyTicket(t models.Ticket) models.Ticket {
	if t.ProjectID != nil {
		pid := *t.ProjectID
		t.ProjectID = &pid
	}
	if t.Response != nil {
		resp := *t.Response
		t.Response = &resp
	}
	return t
}

func copySubmission(s models.Submission) models.Submission {
	s.Data = append([]byte(nil), s.Data...)
	return s
}

//
// КЛИЕНТЫ
//

func (m *Memory) CreateClient(_ context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.clients {
		if existing.AssignedID == c.AssignedID {
			return ErrDuplicate
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := m.clients[c.ID]; ok {
		return ErrDuplicate
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)

	stored := *c
	stored.Projects = nil
	stored.Tickets = nil
	m.clients[c.ID] = stored
	m.nextSeq(c.ID)
	return nil
}

func (m *Memory) GetClient(_ context.Context, id string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Projects = m.projectsOf(id)
	return &c, nil
}

func (m *Memory) FindClientByAssignedID(_ context.Context, assignedID string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		if c.AssignedID == assignedID {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ClientAssignedIDExists(ctx context.Context, assignedID string) (bool, error) {
	_, err := m.FindClientByAssignedID(ctx, assignedID)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *Memory) ListClients(_ context.Context) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return m.order[out[i].ID] < m.order[out[j].ID]
	})
	return out, nil
}

func (m *Memory) UpdateClient(ctx context.Context, id string, upd models.ClientUpdate) (*models.Client, error) {
	m.mu.Lock()
	c, ok := m.clients[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Company != nil {
		c.Company = *upd.Company
	}
	c.UpdatedAt = time.Now()
	m.clients[id] = c
	m.mu.Unlock()

	return m.GetClient(ctx, id)
}

func (m *Memory) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	for pid, p := range m.projects {
		if p.ClientID == id {
			delete(m.projects, pid)
		}
	}
	for tid, t := range m.tickets {
		if t.ClientID == id {
			delete(m.tickets, tid)
		}
	}
	delete(m.clients, id)
	return nil
}

//
// ПРОЕКТЫ
//

func (m *Memory) projectsOf(clientID string) []models.Project {
	var ids []string
	for id, p := range m.projects {
		if clientID == "" || p.ClientID == clientID {
			ids = append(ids, id)
		}
	}
	m.newerFirst(ids, func(id string) time.Time { return m.projects[id].CreatedAt })

	out := make([]models.Project, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyProject(m.projects[id]))
	}
	return out
}

func (m *Memory) CreateProject(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := m.projects[p.ID]; ok {
		return ErrDuplicate
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	for i := range p.Stages {
		if p.Stages[i].ID == "" {
			p.Stages[i].ID = uuid.NewString()
		}
		p.Stages[i].ProjectID = p.ID
		if p.Stages[i].CreatedAt.IsZero() {
			p.Stages[i].CreatedAt = p.CreatedAt
		}
	}
	sort.SliceStable(p.Stages, func(i, j int) bool { return p.Stages[i].SortOrder < p.Stages[j].SortOrder })

	m.projects[p.ID] = copyProject(*p)
	m.nextSeq(p.ID)
	return nil
}

func (m *Memory) GetProject(_ context.Context, id string) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = copyProject(p)
	return &p, nil
}

func (m *Memory) ListProjects(_ context.Context, clientID string) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.projectsOf(clientID), nil
}

func (m *Memory) UpdateStages(_ context.Context, projectID string, stages []models.Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	p = copyProject(p)
	for _, upd := range stages {
		for i := range p.Stages {
			if p.Stages[i].Name == upd.Name {
				p.Stages[i].Status = upd.Status
				p.Stages[i].CompletionPercentage = upd.CompletionPercentage
			}
		}
	}
	p.UpdatedAt = time.Now()
	m.projects[projectID] = p
	return nil
}

func (m *Memory) UpdateProjectAggregate(_ context.Context, projectID string, agg models.ProjectAggregate) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	p = copyProject(p)
	p.TotalProgress = agg.TotalProgress
	p.IsCompleted = agg.IsCompleted
	p.EndDate = nil
	if agg.EndDate != nil {
		end := *agg.EndDate
		p.EndDate = &end
	}
	p.UpdatedAt = time.Now()
	m.projects[projectID] = p

	out := copyProject(p)
	return &out, nil
}

//
// ТИКЕТЫ
//

func (m *Memory) CreateTicket(_ context.Context, t *models.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, ok := m.tickets[t.ID]; ok {
		return ErrDuplicate
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	m.tickets[t.ID] = copyTicket(*t)
	m.nextSeq(t.ID)
	return nil
}

func (m *Memory) GetTicket(_ context.Context, id string) (*models.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	t = copyTicket(t)
	return &t, nil
}

func (m *Memory) ListTickets(_ context.Context, clientID string) ([]models.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, t := range m.tickets {
		if clientID == "" || t.ClientID == clientID {
			ids = append(ids, id)
		}
	}
	m.newerFirst(ids, func(id string) time.Time { return m.tickets[id].CreatedAt })

	out := make([]models.Ticket, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyTicket(m.tickets[id]))
	}
	return out, nil
}

func (m *Memory) UpdateTicket(_ context.Context, id string, upd models.TicketUpdate) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Response != nil {
		resp := *upd.Response
		t.Response = &resp
	}
	t.UpdatedAt = time.Now()
	m.tickets[id] = t

	out := copyTicket(t)
	return &out, nil
}

//
// ЗАЯВКИ
//

func (m *Memory) CreateSubmission(_ context.Context, s *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, ok := m.submissions[s.ID]; ok {
		return ErrDuplicate
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	m.submissions[s.ID] = copySubmission(*s)
	m.nextSeq(s.ID)
	return nil
}

func (m *Memory) GetSubmission(_ context.Context, id string) (*models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s = copySubmission(s)
	return &s, nil
}

func (m *Memory) ListSubmissions(_ context.Context, clientID string) ([]models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, s := range m.submissions {
		if clientID == "" || s.ClientID == clientID {
			ids = append(ids, id)
		}
	}
	m.newerFirst(ids, func(id string) time.Time { return m.submissions[id].SubmittedAt })

	out := make([]models.Submission, 0, len(ids))
	for _, id := range ids {
		out = append(out, copySubmission(m.submissions[id]))
	}
	return out, nil
}

func (m *Memory) UpdateSubmissionStatus(_ context.Context, id string, status models.SubmissionStatus) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.Status = status
	m.submissions[id] = s

	out := copySubmission(s)
	return &out, nil
}

//
// АУДИТ
//

func (m *Memory) CreateAuditLog(_ context.Context, l *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.ID = uint(len(m.audit) + 1)
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	m.audit = append(m.audit, *l)
	return nil
}

func (m *Memory) ListAuditLogs(_ context.Context, limit int) ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.AuditLog, 0, len(m.audit))
	for i := len(m.audit) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.audit[i])
	}
	return out, nil
}
