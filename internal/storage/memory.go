package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrportal-backend/internal/models"
)

// MemoryStorage keeps accounts in process memory. Data is lost on restart;
// it backs local development and handler tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	accounts map[string]*models.HRAccount // by email
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{accounts: make(map[string]*models.HRAccount)}
}

func (s *MemoryStorage) GetByEmail(_ context.Context, email string) (*models.HRAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *MemoryStorage) Create(_ context.Context, account *models.HRAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.Email]; ok {
		return ErrEmailTaken
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.CreatedAt = time.Now().UTC()

	cp := *account
	s.accounts[account.Email] = &cp
	return nil
}

func (s *MemoryStorage) Approve(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.ID == id {
			account.Verified = true
			return nil
		}
	}
	return ErrAccountNotFound
}

func (s *MemoryStorage) ListPending(_ context.Context) ([]models.HRAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]models.HRAccount, 0)
	for _, account := range s.accounts {
		if !account.Verified {
			pending = append(pending, *account)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *MemoryStorage) Ping(context.Context) error { return nil }

func (s *MemoryStorage) Close() error { return nil }
