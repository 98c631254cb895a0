// Package session — два независимых слота входа: флаг администратора
// и текущий клиент портала.
//
// Slots реализуется sessions.Session из gin-contrib/sessions, поэтому те же
// правила работают и с подписанной cookie на сервере, и с MemorySlots в тестах.
// Сохранять сессию (Save) должен вызывающий код.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"

	"agency-portal/internal/models"
	"agency-portal/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const (
	KeyAdmin    = "admin"
	KeyClientID = "client_id"
)

// bcrypt смотрит только на первые 72 байта; более длинный секрет отклоняем,
// иначе совпадение по префиксу пропустит чужой ввод.
const maxSecretLen = 72

var ErrNoAdminSecret = errors.New("admin secret is not configured")

type Slots interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Delete(key interface{})
}

type ClientFinder interface {
	FindClientByAssignedID(ctx context.Context, assignedID string) (*models.Client, error)
}

// AdminCredential — bcrypt-хеш или секрет в открытом виде; если заданы оба, используется хеш.
type AdminCredential struct {
	Secret string
	Hash   string
}

type Authenticator struct {
	clients ClientFinder
	secret  []byte
	hash    []byte
}

func NewAuthenticator(clients ClientFinder, cred AdminCredential) (*Authenticator, error) {
	if cred.Secret == "" && cred.Hash == "" {
		return nil, ErrNoAdminSecret
	}
	a := &Authenticator{clients: clients}
	if cred.Hash != "" {
		if _, err := bcrypt.Cost([]byte(cred.Hash)); err != nil {
			return nil, err
		}
		a.hash = []byte(cred.Hash)
	} else {
		a.secret = []byte(cred.Secret)
	}
	return a, nil
}

// HashSecret — значение для ADMIN_SECRET_HASH.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *Authenticator) secretMatches(secret string) bool {
	if len(secret) == 0 || len(secret) > maxSecretLen {
		return false
	}
	if a.hash != nil {
		return bcrypt.CompareHashAndPassword(a.hash, []byte(secret)) == nil
	}
	return subtle.ConstantTimeCompare(a.secret, []byte(secret)) == 1
}

// LoginAdmin: при несовпадении слот администратора остаётся анонимным.
func (a *Authenticator) LoginAdmin(s Slots, secret string) bool {
	if !a.secretMatches(secret) {
		s.Delete(KeyAdmin)
		return false
	}
	s.Set(KeyAdmin, true)
	return true
}

func (a *Authenticator) LogoutAdmin(s Slots) {
	s.Delete(KeyAdmin)
}

// LoginClient ищет клиента по коду входа (точное совпадение с учётом регистра).
// Неизвестный код — (nil, nil), слот клиента анонимный; ошибка только если
// отказало хранилище.
func (a *Authenticator) LoginClient(ctx context.Context, s Slots, code string) (*models.Client, error) {
	if code == "" {
		s.Delete(KeyClientID)
		return nil, nil
	}

	client, err := a.clients.FindClientByAssignedID(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		s.Delete(KeyClientID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Set(KeyClientID, client.ID)
	return client, nil
}

func (a *Authenticator) LogoutClient(s Slots) {
	s.Delete(KeyClientID)
}

func IsAdminAuthenticated(s Slots) bool {
	v, _ := s.Get(KeyAdmin).(bool)
	return v
}

func CurrentClientID(s Slots) (string, bool) {
	id, ok := s.Get(KeyClientID).(string)
	return id, ok && id != ""
}

// MemorySlots — Slots в памяти, по одному на логическую сессию.
type MemorySlots struct {
	mu     sync.Mutex
	values map[interface{}]interface{}
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{values: map[interface{}]interface{}{}}
}

func (m *MemorySlots) Get(key interface{}) interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func (m *MemorySlots) Set(key interface{}, val interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = val
}

func (m *MemorySlots) Delete(key interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
