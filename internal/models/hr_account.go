package models

import "time"

// HRAccount is a registered HR representative. Verified gates login and is
// only ever flipped to true by an admin.
type HRAccount struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	CompanyName     string    `json:"company_name" db:"company_name"`
	JobTitle        string    `json:"job_title" db:"job_title"`
	CompanyWebsite  *string   `json:"company_website,omitempty" db:"company_website"`
	VerificationDoc string    `json:"verification_doc" db:"verification_doc"`
	Verified        bool      `json:"verified" db:"verified"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Website returns the company website or an empty string.
func (a HRAccount) Website() string {
	if a.CompanyWebsite == nil {
		return ""
	}
	return *a.CompanyWebsite
}
