package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"hrportal-backend/internal/auth"
	"hrportal-backend/internal/events"
	"hrportal-backend/internal/models"
	"hrportal-backend/internal/storage"
	"hrportal-backend/internal/uploads"
)

var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

var personalDomains = map[string]struct{}{
	"gmail.com":   {},
	"yahoo.com":   {},
	"hotmail.com": {},
	"outlook.com": {},
}

// SignupInput is one submitted registration form.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	CompanyName     string
	JobTitle        string
	CompanyWebsite  string
	FileName        string
	File            io.Reader
}

type Service struct {
	store  storage.AccountStore
	docs   uploads.Store
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store storage.AccountStore, docs uploads.Store, pub events.Publisher, log *zap.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: store, docs: docs, events: pub, log: log, now: time.Now}
}

// Register validates in and creates an unverified account. Validation
// failures are returned as *RejectedError; any other error is unexpected.
func (s *Service) Register(ctx context.Context, in SignupInput) (*models.HRAccount, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	company := strings.TrimSpace(in.CompanyName)
	jobTitle := strings.TrimSpace(in.JobTitle)
	website := strings.TrimSpace(in.CompanyWebsite)

	if name == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" ||
		company == "" || jobTitle == "" || in.File == nil || in.FileName == "" {
		return nil, Rejected(ReasonMissingFields)
	}
	if in.Password != in.ConfirmPassword {
		return nil, Rejected(ReasonPasswordMismatch)
	}
	if !IsCompanyEmail(email) {
		return nil, Rejected(ReasonPersonalEmail)
	}

	_, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, Rejected(ReasonEmailTaken)
	case !errors.Is(err, storage.ErrAccountNotFound):
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}

	if !AllowedFile(in.FileName) {
		return nil, Rejected(ReasonInvalidFileType)
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, Rejected(ReasonPasswordTooLong)
	}

	docName := uploads.StoredName(email, in.FileName)
	if err := s.docs.Save(ctx, docName, in.File); err != nil {
		return nil, fmt.Errorf("save verification document: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.HRAccount{
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		CompanyName:     company,
		JobTitle:        jobTitle,
		VerificationDoc: docName,
		Verified:        false,
	}
	if website != "" {
		account.CompanyWebsite = &website
	}

	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			// lost a concurrent signup for the same email
			if rmErr := s.docs.Remove(ctx, docName); rmErr != nil {
				s.log.Warn("Failed to remove orphaned document", zap.String("doc", docName), zap.Error(rmErr))
			}
			return nil, Rejected(ReasonEmailTaken)
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	s.log.Info("HR account registered",
		zap.String("account_id", account.ID),
		zap.String("email", account.Email),
		zap.String("doc", docName))

	s.publish(ctx, events.SubjectAccountRegistered, events.NewAccountRegistered(
		s.now().Unix(), account.ID, account.Email, account.CompanyName, account.VerificationDoc))

	return account, nil
}

// Authenticate checks credentials against the stored hash. Only verified
// accounts may log in.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.HRAccount, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, Rejected(ReasonMissingCredentials)
	}

	account, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrAccountNotFound) {
		return nil, Rejected(ReasonUnknownEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}

	if !account.Verified {
		return nil, Rejected(ReasonPendingVerification)
	}

	ok, err := auth.CheckPassword(account.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password for %s: %w", email, err)
	}
	if !ok {
		return nil, Rejected(ReasonIncorrectPassword)
	}

	return account, nil
}

func (s *Service) Pending(ctx context.Context) ([]models.HRAccount, error) {
	return s.store.ListPending(ctx)
}

// Approve marks the account verified. Unknown ids yield storage.ErrAccountNotFound.
func (s *Service) Approve(ctx context.Context, id string) error {
	if err := s.store.Approve(ctx, id); err != nil {
		return err
	}

	s.log.Info("HR account approved", zap.String("account_id", id))
	s.publish(ctx, events.SubjectAccountApproved, events.NewAccountApproved(s.now().Unix(), id))
	return nil
}

func (s *Service) Document(ctx context.Context, name string) (*uploads.Object, error) {
	return s.docs.Open(ctx, name)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) publish(ctx context.Context, subject string, event any) {
	if err := s.events.Publish(ctx, subject, event); err != nil {
		s.log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsCompanyEmail reports whether the domain after the last '@' is not a
// well-known personal provider.
func IsCompanyEmail(email string) bool {
	domain := email[strings.LastIndex(email, "@")+1:]
	_, personal := personalDomains[strings.ToLower(domain)]
	return !personal
}

// AllowedFile checks the text after the last '.' against the accepted
// document types. Names without a '.' are rejected.
func AllowedFile(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}
