package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"hrportal-backend/internal/models"
	"hrportal-backend/internal/storage/migrations"
)

const accountColumns = `id, name, email, password_hash, company_name, job_title,
	company_website, verification_doc, verified, created_at`

// Storage is the Postgres-backed AccountStore.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// ConnectPostgres opens the database, retrying while it comes up.
func ConnectPostgres(dsn string, attempts int, log *zap.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return db, nil
		}
		log.Warn("DB connection attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*models.HRAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM hr_accounts WHERE email = $1`

	var account models.HRAccount
	if err := s.db.GetContext(ctx, &account, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *Storage) Create(ctx context.Context, account *models.HRAccount) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	query := `
		INSERT INTO hr_accounts (
			id, name, email, password_hash, company_name, job_title,
			company_website, verification_doc, verified
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		account.ID, account.Name, account.Email, account.PasswordHash,
		account.CompanyName, account.JobTitle, account.CompanyWebsite,
		account.VerificationDoc, account.Verified,
	).Scan(&account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Storage) Approve(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrAccountNotFound
	}

	res, err := s.db.ExecContext(ctx, `UPDATE hr_accounts SET verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *Storage) ListPending(ctx context.Context) ([]models.HRAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM hr_accounts
		WHERE verified = FALSE
		ORDER BY created_at
	`
	var accounts []models.HRAccount
	if err := s.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
