// Package events defines the notifications sent to reviewers when HR
// accounts change state. Delivery is fire-and-forget.
package events

import "context"

const (
	SubjectAccountRegistered = "hr.accounts.registered"
	SubjectAccountApproved   = "hr.accounts.approved"
)

const version = 1

type AccountRegistered struct {
	V               int    `msgpack:"v"`
	TS              int64  `msgpack:"ts"`
	AccountID       string `msgpack:"account_id"`
	Email           string `msgpack:"email"`
	CompanyName     string `msgpack:"company_name"`
	VerificationDoc string `msgpack:"verification_doc"`
}

type AccountApproved struct {
	V         int    `msgpack:"v"`
	TS        int64  `msgpack:"ts"`
	AccountID string `msgpack:"account_id"`
}

func NewAccountRegistered(ts int64, id, email, company, doc string) AccountRegistered {
	return AccountRegistered{V: version, TS: ts, AccountID: id, Email: email, CompanyName: company, VerificationDoc: doc}
}

func NewAccountApproved(ts int64, id string) AccountApproved {
	return AccountApproved{V: version, TS: ts, AccountID: id}
}

// Publisher sends an event on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// Nop drops every event. Used when no message bus is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// Multi fans an event out to every publisher and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, subject string, event any) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, subject, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
