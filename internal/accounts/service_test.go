package accounts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrportal-backend/internal/models"
	"hrportal-backend/internal/storage"
	"hrportal-backend/internal/uploads"
)

type memStore struct {
	mu        sync.Mutex
	byEmail   map[string]*models.HRAccount
	createErr error
	// raceEmail makes Create fail with ErrEmailTaken, as if another
	// request inserted the same email after the lookup.
	raceEmail string
}

func newMemStore() *memStore {
	return &memStore{byEmail: map[string]*models.HRAccount{}}
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.HRAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, a *models.HRAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[a.Email]; ok || a.Email == m.raceEmail {
		return storage.ErrEmailTaken
	}
	a.ID = uuid.New().String()
	cp := *a
	m.byEmail[a.Email] = &cp
	return nil
}

func (m *memStore) Approve(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byEmail {
		if a.ID == id {
			a.Verified = true
			return nil
		}
	}
	return storage.ErrAccountNotFound
}

func (m *memStore) ListPending(context.Context) ([]models.HRAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HRAccount
	for _, a := range m.byEmail {
		if !a.Verified {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }

type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ any) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore, string, *recordingPublisher) {
	t.Helper()
	dir := t.TempDir()
	docs, err := uploads.NewLocalStore(dir)
	require.NoError(t, err)
	store := newMemStore()
	pub := &recordingPublisher{}
	return NewService(store, docs, pub, zap.NewNop()), store, dir, pub
}

func validSignup() SignupInput {
	return SignupInput{
		Name:            "Alice",
		Email:           "alice@acme.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
		CompanyName:     "Acme",
		JobTitle:        "Recruiter",
		FileName:        "id.pdf",
		File:            strings.NewReader("%PDF-1.4"),
	}
}

func requireReason(t *testing.T, err error, want Reason) {
	t.Helper()
	re, ok := Rejection(err)
	require.True(t, ok, "expected rejection, got %v", err)
	assert.Equal(t, want, re.Reason)
}

func TestRegister_Success(t *testing.T) {
	svc, store, dir, pub := newTestService(t)

	in := validSignup()
	in.Email = "  Alice@ACME.com "
	in.CompanyWebsite = "https://acme.com"

	account, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "alice@acme.com", account.Email)
	assert.False(t, account.Verified)
	assert.NotEqual(t, "Passw0rd!", account.PasswordHash)
	assert.True(t, strings.HasPrefix(account.PasswordHash, "$2"))
	assert.Equal(t, "aliceacme.com_id.pdf", account.VerificationDoc)
	require.NotNil(t, account.CompanyWebsite)
	assert.Equal(t, "https://acme.com", *account.CompanyWebsite)

	stored, err := store.GetByEmail(context.Background(), "alice@acme.com")
	require.NoError(t, err)
	assert.False(t, stored.Verified)

	data, err := os.ReadFile(filepath.Join(dir, "aliceacme.com_id.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	assert.Equal(t, []string{"hr.accounts.registered"}, pub.subjects)
}

func TestRegister_BlankWebsiteIsNil(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	in := validSignup()
	in.CompanyWebsite = "   "
	account, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, account.CompanyWebsite)
}

func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *SignupInput)
		seed   bool
		want   Reason
	}{
		{"missing name", func(in *SignupInput) { in.Name = "  " }, false, ReasonMissingFields},
		{"missing job title", func(in *SignupInput) { in.JobTitle = "" }, false, ReasonMissingFields},
		{"missing file", func(in *SignupInput) { in.File = nil }, false, ReasonMissingFields},
		{"empty filename", func(in *SignupInput) { in.FileName = "" }, false, ReasonMissingFields},
		{"password mismatch", func(in *SignupInput) { in.ConfirmPassword = "other" }, false, ReasonPasswordMismatch},
		{"gmail", func(in *SignupInput) { in.Email = "alice@gmail.com" }, false, ReasonPersonalEmail},
		{"outlook upper", func(in *SignupInput) { in.Email = "ALICE@Outlook.COM" }, false, ReasonPersonalEmail},
		{"yahoo", func(in *SignupInput) { in.Email = "a@yahoo.com" }, false, ReasonPersonalEmail},
		{"hotmail", func(in *SignupInput) { in.Email = "a@hotmail.com" }, false, ReasonPersonalEmail},
		{"duplicate", func(in *SignupInput) { in.Email = "ALICE@acme.com" }, true, ReasonEmailTaken},
		{"exe", func(in *SignupInput) { in.FileName = "id.exe" }, false, ReasonInvalidFileType},
		{"no extension", func(in *SignupInput) { in.FileName = "idpdf" }, false, ReasonInvalidFileType},
		{"too long password", func(in *SignupInput) {
			in.Password = strings.Repeat("x", 73)
			in.ConfirmPassword = in.Password
		}, false, ReasonPasswordTooLong},
		// mismatch wins over personal email
		{"order", func(in *SignupInput) { in.ConfirmPassword = "x"; in.Email = "a@gmail.com" }, false, ReasonPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, dir, _ := newTestService(t)
			if tt.seed {
				_, err := svc.Register(context.Background(), validSignup())
				require.NoError(t, err)
			}
			before := len(store.byEmail)

			in := validSignup()
			tt.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			requireReason(t, err, tt.want)

			assert.Len(t, store.byEmail, before)
			if !tt.seed {
				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				assert.Empty(t, entries)
			}
		})
	}
}

func TestRegister_AcceptedExtensions(t *testing.T) {
	for _, name := range []string{"a.pdf", "a.PDF", "a.jpg", "a.JPEG", "a.png", "scan.v2.png"} {
		assert.True(t, AllowedFile(name), name)
	}
	for _, name := range []string{"a.gif", "a", "a.pdf.exe", ".", "pdf"} {
		assert.False(t, AllowedFile(name), name)
	}
}

func TestRegister_AwkwardNamesAreStored(t *testing.T) {
	tests := []struct {
		email, file, wantDoc string
	}{
		{"alice@acme.com", "scan..v2.pdf", "aliceacme.com_scan..v2.pdf"},
		{"a..b@acme.com", "id.pdf", "a..bacme.com_id.pdf"},
		{"alice+hr@acme.com", "id.pdf", "alicehracme.com_id.pdf"},
		{"alice@acme.com", "r\u00e9sum\u00e9 scan.PDF", "aliceacme.com_resume_scan.PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.email+"/"+tt.file, func(t *testing.T) {
			svc, _, dir, _ := newTestService(t)
			in := validSignup()
			in.Email = tt.email
			in.FileName = tt.file

			account, err := svc.Register(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDoc, account.VerificationDoc)

			data, err := os.ReadFile(filepath.Join(dir, tt.wantDoc))
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.4", string(data))

			obj, err := svc.Document(context.Background(), account.VerificationDoc)
			require.NoError(t, err)
			require.NoError(t, obj.Body.Close())
		})
	}
}

func TestRegister_LostRaceRemovesDocument(t *testing.T) {
	svc, store, dir, pub := newTestService(t)
	store.raceEmail = "alice@acme.com"

	_, err := svc.Register(context.Background(), validSignup())
	requireReason(t, err, ReasonEmailTaken)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, pub.subjects)
}

func TestRegister_UnexpectedStoreError(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	boom := errors.New("connection reset")
	store.createErr = boom

	_, err := svc.Register(context.Background(), validSignup())
	require.Error(t, err)
	_, rejected := Rejection(err)
	assert.False(t, rejected)
	assert.ErrorIs(t, err, boom)
}

func TestAuthenticate(t *testing.T) {
	svc, store, _, pub := newTestService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, validSignup())
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "", "x")
	requireReason(t, err, ReasonMissingCredentials)

	_, err = svc.Authenticate(ctx, "bob@acme.com", "Passw0rd!")
	requireReason(t, err, ReasonUnknownEmail)

	// pending regardless of password correctness
	_, err = svc.Authenticate(ctx, "alice@acme.com", "Passw0rd!")
	requireReason(t, err, ReasonPendingVerification)
	_, err = svc.Authenticate(ctx, "alice@acme.com", "wrong")
	requireReason(t, err, ReasonPendingVerification)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.Approve(ctx, account.ID))

	pending, err = svc.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.Authenticate(ctx, "alice@acme.com", "wrong")
	requireReason(t, err, ReasonIncorrectPassword)

	got, err := svc.Authenticate(ctx, " ALICE@acme.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.True(t, got.Verified)

	stored, _ := store.GetByEmail(ctx, "alice@acme.com")
	assert.True(t, stored.Verified)
	assert.Equal(t, []string{"hr.accounts.registered", "hr.accounts.approved"}, pub.subjects)
}

func TestApprove_UnknownID(t *testing.T) {
	svc, _, _, pub := newTestService(t)

	err := svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	assert.Empty(t, pub.subjects)
}

func TestIsCompanyEmail(t *testing.T) {
	assert.True(t, IsCompanyEmail("alice@acme.com"))
	assert.True(t, IsCompanyEmail("alice@mail.gmail.com"))
	assert.False(t, IsCompanyEmail("alice@gmail.com"))
	assert.False(t, IsCompanyEmail("a@b@hotmail.com"))
}
