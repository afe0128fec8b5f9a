package handlers

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"hrportal-backend/internal/accounts"
	"hrportal-backend/internal/auth"
	"hrportal-backend/internal/models"
	"hrportal-backend/internal/storage"
	"hrportal-backend/internal/uploads"
)

//go:embed templates/*.html
var templateFS embed.FS

// multipart parts beyond this are spooled to temp files
const formMemory = 1 << 20

type Handler struct {
	accounts  *accounts.Service
	admin     *auth.Issuer
	log       *zap.Logger
	maxUpload int64
	tmpl      *template.Template
}

// New builds the HTTP layer. A nil admin issuer leaves admin routes open.
func New(svc *accounts.Service, admin *auth.Issuer, maxUpload int64, log *zap.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		accounts:  svc,
		admin:     admin,
		log:       log,
		maxUpload: maxUpload,
		tmpl:      tmpl,
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	// Pages
	r.Get("/", h.Landing)
	r.Get("/signin", h.SigninPage)
	r.Get("/login", h.LoginPage)

	// HR
	r.Post("/hr_signup", h.Signup)
	r.Post("/login", h.Login)

	// Admin
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(h.admin))
		r.Get("/admin/pending_hr", h.PendingAccounts)
		r.Post("/admin/approve_hr/{hr_id}", h.ApproveAccount)
		r.Get("/uploads/hr_verifications/{filename}", h.VerificationDocument)
	})

	r.Get("/healthz", h.Health)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

type pageData struct {
	Error   string
	Account *models.HRAccount
	Pending []models.HRAccount
}

func (h *Handler) Landing(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "main.html", pageData{})
}

func (h *Handler) SigninPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "signin.html", pageData{})
}

func (h *Handler) LoginPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "login.html", pageData{})
}

// Signup registers a new HR account pending admin review
// @Summary HR signup
// @Description Validates the form, stores the verification document and creates an unverified account
// @Tags hr
// @Accept multipart/form-data
// @Produce html
// @Param name formData string true "Display name"
// @Param email formData string true "Company email"
// @Param password formData string true "Password"
// @Param confirmPassword formData string true "Password confirmation"
// @Param companyName formData string true "Company name"
// @Param jobTitle formData string true "Job title"
// @Param companyWebsite formData string false "Company website"
// @Param verification formData file true "Verification document (PDF, JPG, PNG)"
// @Success 303 "Redirect to /login"
// @Failure 200 {string} string "Signup form with a validation message"
// @Failure 500 {string} string "Internal server error"
// @Router /hr_signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		h.renderSignupError(w, accounts.Rejected(accounts.ReasonFileTooLarge))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(formMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderSignupError(w, accounts.Rejected(accounts.ReasonFileTooLarge))
			return
		}
		h.renderSignupError(w, accounts.Rejected(accounts.ReasonMissingFields))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	in := accounts.SignupInput{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		CompanyName:     r.FormValue("companyName"),
		JobTitle:        r.FormValue("jobTitle"),
		CompanyWebsite:  r.FormValue("companyWebsite"),
	}

	file, header, err := r.FormFile("verification")
	if err == nil {
		defer file.Close()
		in.File = file
		in.FileName = header.Filename
	}

	if _, err := h.accounts.Register(r.Context(), in); err != nil {
		h.renderSignupError(w, err)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) renderSignupError(w http.ResponseWriter, err error) {
	if rejected, ok := accounts.Rejection(err); ok {
		h.render(w, http.StatusOK, "signin.html", pageData{Error: rejected.Error()})
		return
	}
	h.log.Error("Error in /hr_signup", zap.Error(err))
	h.render(w, http.StatusInternalServerError, "signin.html", pageData{Error: accounts.InternalErrorMessage})
}

// Login checks HR credentials and renders the dashboard
// @Summary HR login
// @Description Verified accounts with a matching password see the dashboard. Nothing is persisted.
// @Tags hr
// @Accept x-www-form-urlencoded
// @Produce html
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {string} string "Dashboard or login form with a message"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if rejected, ok := accounts.Rejection(err); ok {
			h.render(w, http.StatusOK, "login.html", pageData{Error: rejected.Error()})
			return
		}
		h.log.Error("Error in /login", zap.Error(err))
		h.render(w, http.StatusInternalServerError, "login.html", pageData{Error: accounts.InternalErrorMessage})
		return
	}

	h.render(w, http.StatusOK, "dashboard.html", pageData{Account: account})
}

// PendingAccounts lists accounts awaiting review
// @Summary Pending HR accounts
// @Tags admin
// @Produce html
// @Success 200 {string} string "Pending list"
// @Failure 401 {string} string "Unauthorized"
// @Security BearerAuth
// @Router /admin/pending_hr [get]
func (h *Handler) PendingAccounts(w http.ResponseWriter, r *http.Request) {
	pending, err := h.accounts.Pending(r.Context())
	if err != nil {
		h.log.Error("List pending accounts", zap.Error(err))
		http.Error(w, "Failed to list pending accounts", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "admin_pending.html", pageData{Pending: pending})
}

// ApproveAccount marks an account verified
// @Summary Approve HR account
// @Tags admin
// @Param hr_id path string true "Account ID"
// @Success 303 "Redirect to /admin/pending_hr"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Account not found"
// @Security BearerAuth
// @Router /admin/approve_hr/{hr_id} [post]
func (h *Handler) ApproveAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "hr_id")

	if err := h.accounts.Approve(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		h.log.Error("Approve account", zap.String("account_id", id), zap.Error(err))
		http.Error(w, "Failed to approve account", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/pending_hr", http.StatusSeeOther)
}

// VerificationDocument streams a stored verification document
// @Summary Verification document
// @Tags admin
// @Produce octet-stream
// @Param filename path string true "Stored filename"
// @Success 200 {file} file
// @Failure 404 {string} string "Not found"
// @Security BearerAuth
// @Router /uploads/hr_verifications/{filename} [get]
func (h *Handler) VerificationDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	obj, err := h.accounts.Document(r.Context(), name)
	if err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("Open verification document", zap.String("doc", name), zap.Error(err))
		http.Error(w, "Failed to open document", http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	if ctype := mime.TypeByExtension(filepath.Ext(name)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}

	if rs, ok := obj.Body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, obj.ModTime, rs)
		return
	}

	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.log.Warn("Stream verification document", zap.String("doc", name), zap.Error(err))
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.accounts.Ping(ctx); err != nil {
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": err.Error()})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("Render template", zap.String("template", name), zap.Error(err))
		http.Error(w, accounts.InternalErrorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Debug("Write response", zap.String("template", name), zap.Error(err))
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Debug("Write response", zap.Error(err))
	}
}
