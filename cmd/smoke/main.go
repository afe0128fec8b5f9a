// Command smoke drives a running portal through signup, review and login.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

var approveLink = regexp.MustCompile(`/admin/approve_hr/([^"]+)`)

type runner struct {
	base   string
	token  string
	client *http.Client
}

func main() {
	base := flag.String("base", "http://localhost:8080", "portal base URL")
	flag.Parse()

	r := &runner{
		base:  strings.TrimRight(*base, "/"),
		token: os.Getenv("ADMIN_TOKEN"),
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	email := fmt.Sprintf("smoke%d@smoke-corp.example", time.Now().Unix())

	fmt.Println("=== HR Portal Smoke Test ===")

	fmt.Println("\n1. Checking health...")
	status, body := r.do(r.request(http.MethodGet, "/healthz", nil, ""))
	expect(status == http.StatusOK, "health returned %d: %s", status, body)
	fmt.Println("✓ Health endpoint working")

	fmt.Println("\n2. Submitting signup for", email)
	status, body = r.signup(email)
	expect(status == http.StatusSeeOther, "signup returned %d: %s", status, body)
	fmt.Println("✓ Signup accepted")

	fmt.Println("\n3. Logging in before review...")
	status, body = r.login(email)
	expect(strings.Contains(body, "pending verification"), "expected pending message, got %d", status)
	fmt.Println("✓ Login blocked until approval")

	fmt.Println("\n4. Listing pending accounts...")
	status, body = r.do(r.admin(http.MethodGet, "/admin/pending_hr"))
	expect(status == http.StatusOK, "pending list returned %d (set ADMIN_TOKEN if the guard is on)", status)
	id := findAccountID(body, email)
	expect(id != "", "account %s missing from pending list", email)
	fmt.Println("✓ Found account", id)

	fmt.Println("\n5. Approving account...")
	status, body = r.do(r.admin(http.MethodPost, "/admin/approve_hr/"+id))
	expect(status == http.StatusSeeOther, "approve returned %d: %s", status, body)
	fmt.Println("✓ Account approved")

	fmt.Println("\n6. Logging in after review...")
	status, body = r.login(email)
	expect(status == http.StatusOK && strings.Contains(body, "Welcome"), "expected dashboard, got %d", status)
	fmt.Println("✓ Dashboard rendered")

	fmt.Println("\n=== Smoke Test Complete ===")
}

func (r *runner) signup(email string) (int, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name":            "Smoke Test",
		"email":           email,
		"password":        "Sm0ke-pass",
		"confirmPassword": "Sm0ke-pass",
		"companyName":     "Smoke Corp",
		"jobTitle":        "Recruiter",
	} {
		_ = mw.WriteField(k, v)
	}
	fw, err := mw.CreateFormFile("verification", "smoke.pdf")
	if err != nil {
		log.Fatal("Build form:", err)
	}
	_, _ = io.WriteString(fw, "%PDF-1.4 smoke")
	_ = mw.Close()

	return r.do(r.request(http.MethodPost, "/hr_signup", &buf, mw.FormDataContentType()))
}

func (r *runner) login(email string) (int, string) {
	form := url.Values{"email": {email}, "password": {"Sm0ke-pass"}}
	return r.do(r.request(http.MethodPost, "/login", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded"))
}

func (r *runner) admin(method, path string) *http.Request {
	req := r.request(method, path, nil, "")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	return req
}

func (r *runner) request(method, path string, body io.Reader, contentType string) *http.Request {
	req, err := http.NewRequest(method, r.base+path, body)
	if err != nil {
		log.Fatal("Build request:", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func (r *runner) do(req *http.Request) (int, string) {
	resp, err := r.client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Read %s: %v", req.URL.Path, err)
	}
	return resp.StatusCode, string(body)
}

// findAccountID returns the approve link id on the pending-list row for email.
func findAccountID(page, email string) string {
	idx := strings.Index(page, email)
	if idx < 0 {
		return ""
	}
	m := approveLink.FindStringSubmatch(page[idx:])
	if m == nil {
		return ""
	}
	return m[1]
}

func expect(ok bool, format string, args ...any) {
	if !ok {
		log.Fatalf("✗ "+format, args...)
	}
}
