// Package service — бизнес-операции над клиентами, проектами, тикетами и заявками.
// Арифметику прогресса считает пакет progress, данные хранит store.Store.
package service

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"agency-portal/internal/models"
	"agency-portal/internal/store"
)

const defaultAuditLimit = 200

type Service struct {
	store store.Store
	now   func() time.Time
	digit func() int // 0..9999 для кода клиента

	locks projectLocks
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCodeSource(next func() int) Option {
	return func(s *Service) { s.digit = next }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
		digit: func() int { return rand.Intn(10000) },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

//
// АКТОР
//

type actorKey struct{}

const ActorAdmin = "admin"

// WithActor помечает контекст тем, кто выполняет действие: "admin" или ID клиента.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return "system"
}

//
// АУДИТ
//

// audit пишет запись в журнал; ошибка журнала не отменяет саму операцию.
func (s *Service) audit(ctx context.Context, entity, entityID, action, details string) {
	record := models.AuditLog{
		CreatedAt: s.now(),
		Actor:     actorFrom(ctx),
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
	}
	if err := s.store.CreateAuditLog(ctx, &record); err != nil {
		log.Printf("failed to write audit log (%s %s %s): %v", entity, entityID, action, err)
	}
}

func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}
	logs, err := s.store.ListAuditLogs(ctx, limit)
	if err != nil {
		return nil, &StoreError{Op: "list audit logs", Err: err}
	}
	return logs, nil
}

//
// БЛОКИРОВКИ ПРОЕКТОВ
//

// projectLocks сериализует изменения одного проекта внутри процесса.
// Между процессами по-прежнему действует "последняя запись побеждает".
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*projectLock
}

type projectLock struct {
	sync.Mutex
	refs int
}

func (l *projectLocks) lock(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[string]*projectLock{}
	}
	pl, ok := l.locks[id]
	if !ok {
		pl = &projectLock{}
		l.locks[id] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.Lock()
	return func() {
		pl.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
