package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/sampletrack/internal/audit/domain"
)

// signingInfo is the HKDF info label; bump the version when the canonical form changes.
var signingInfo = []byte("sample-audit-record-signing-v1")

type auditSigner struct {
	masterKey []byte
}

// NewAuditSigner creates an HMAC-SHA256 audit signer. The signing key is derived
// from masterKey with HKDF-SHA256 on every call and wiped afterwards.
func NewAuditSigner(masterKey []byte) (AuditSigner, error) {
	if len(masterKey) < 16 {
		return nil, errors.New("audit signing key must be at least 16 bytes")
	}
	key := make([]byte, len(masterKey))
	copy(key, masterKey)
	return &auditSigner{masterKey: key}, nil
}

func (a *auditSigner) deriveSigningKey() ([]byte, error) {
	reader := hkdf.New(sha256.New, a.masterKey, nil, signingInfo)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalize encodes every immutable field of the record. Variable-length
// fields are length-prefixed so distinct records never share an encoding.
func canonicalize(record *auditDomain.AuditRecord) ([]byte, error) {
	buf := make([]byte, 0, 512)

	buf = appendLengthPrefixed(buf, []byte(record.ID))
	buf = binary.BigEndian.AppendUint32(buf, uint32(record.PeriodYear))
	buf = binary.BigEndian.AppendUint32(buf, uint32(record.PeriodMonth))

	buf = appendLengthPrefixed(buf, []byte(record.Actor.ID))
	buf = appendLengthPrefixed(buf, []byte(record.Actor.Name))
	buf = appendLengthPrefixed(buf, []byte(record.Actor.Role))
	buf = appendLengthPrefixed(buf, []byte(record.Actor.Document))

	buf = appendLengthPrefixed(buf, []byte(record.Action))

	if record.SubjectDetails != nil {
		// encoding/json sorts map keys, which keeps this deterministic.
		details, err := json.Marshal(record.SubjectDetails)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal subject details: %w", err)
		}
		buf = appendLengthPrefixed(buf, details)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(record.OccurredAt.UnixNano()))
	buf = appendLengthPrefixed(buf, []byte(record.Outcome))

	if record.Error != nil {
		buf = append(buf, 1)
		buf = appendLengthPrefixed(buf, []byte(*record.Error))
	} else {
		buf = append(buf, 0)
	}

	buf = binary.BigEndian.AppendUint64(buf, uint64(record.DurationMs))

	return buf, nil
}

func appendLengthPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// Sign generates the HMAC-SHA256 signature for the record.
func (a *auditSigner) Sign(record *auditDomain.AuditRecord) ([]byte, error) {
	signingKey, err := a.deriveSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey)

	canonical, err := canonicalize(record)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize record: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify recomputes the signature and compares it in constant time.
func (a *auditSigner) Verify(record *auditDomain.AuditRecord) error {
	expected, err := a.Sign(record)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(record.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
