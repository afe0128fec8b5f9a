package accounts

import "errors"

// Reason enumerates the user-correctable outcomes of signup and login.
type Reason int

const (
	ReasonMissingFields Reason = iota + 1
	ReasonPasswordMismatch
	ReasonPersonalEmail
	ReasonEmailTaken
	ReasonInvalidFileType
	ReasonPasswordTooLong
	ReasonFileTooLarge

	ReasonMissingCredentials
	ReasonUnknownEmail
	ReasonPendingVerification
	ReasonIncorrectPassword
)

var reasonMessages = map[Reason]string{
	ReasonMissingFields:       "All required fields must be filled",
	ReasonPasswordMismatch:    "Passwords do not match",
	ReasonPersonalEmail:       "Please use your company email address",
	ReasonEmailTaken:          "Email already registered",
	ReasonInvalidFileType:     "Invalid file type (Allowed: PDF, JPG, PNG)",
	ReasonPasswordTooLong:     "Password is too long (max 72 bytes)",
	ReasonFileTooLarge:        "Uploaded file is too large",
	ReasonMissingCredentials:  "Please enter both email and password.",
	ReasonUnknownEmail:        "No account found with this email.",
	ReasonPendingVerification: "Your account is pending verification by admin.",
	ReasonIncorrectPassword:   "Incorrect password.",
}

// InternalErrorMessage is shown for any unexpected failure.
const InternalErrorMessage = "Internal server error"

func (r Reason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return InternalErrorMessage
}

// RejectedError is a validation or credential failure the user can fix.
type RejectedError struct {
	Reason Reason
}

func (e *RejectedError) Error() string {
	return e.Reason.Message()
}

// Rejection extracts the RejectedError from err, if any.
func Rejection(err error) (*RejectedError, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// Rejected returns r as an error.
func Rejected(r Reason) error {
	return &RejectedError{Reason: r}
}
