package storage

import (
	"context"
	"errors"

	"hrportal-backend/internal/models"
)

var (
	ErrAccountNotFound = errors.New("hr account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// AccountStore is the persistent collection of HR accounts, keyed by email.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*models.HRAccount, error)
	Create(ctx context.Context, account *models.HRAccount) error
	Approve(ctx context.Context, id string) error
	ListPending(ctx context.Context) ([]models.HRAccount, error)
	Ping(ctx context.Context) error
	Close() error
}
