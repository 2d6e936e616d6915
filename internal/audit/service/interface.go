// Package service provides signing and publishing services for audit records.
package service

import (
	"context"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
)

// AuditSigner produces and checks tamper-evidence signatures for audit records.
type AuditSigner interface {
	// Sign returns the HMAC-SHA256 signature of the record's canonical form.
	Sign(record *auditDomain.AuditRecord) ([]byte, error)

	// Verify returns ErrSignatureInvalid when the record does not match its signature.
	Verify(record *auditDomain.AuditRecord) error
}

// AuditPublisher mirrors stored audit records to an external consumer.
type AuditPublisher interface {
	Publish(ctx context.Context, record *auditDomain.AuditRecord) error
	Shutdown(ctx context.Context) error
}
