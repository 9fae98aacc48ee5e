package archive

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	"traki/internal/fleet"
)

// EncryptedArchive wraps another archive and encrypts every report to an
// age recipient before it is stored. The client only ever writes reports, so
// there is no decryption path here; whoever holds the matching identity
// reads them with the age tooling.
type EncryptedArchive struct {
	inner     fleet.Archive
	recipient age.Recipient
}

// NewEncryptedArchive wraps inner so everything stored is encrypted to the
// given age recipient (an "age1..." public key).
func NewEncryptedArchive(inner fleet.Archive, recipient string) (*EncryptedArchive, error) {
	r, err := age.ParseX25519Recipient(recipient)
	if err != nil {
		return nil, fmt.Errorf("parsing age recipient: %w", err)
	}
	return &EncryptedArchive{inner: inner, recipient: r}, nil
}

// Put encrypts the report and stores the ciphertext under name with an
// ".age" suffix. The declared plaintext size no longer applies, so the inner
// Put is given an unknown size.
func (e *EncryptedArchive) Put(name string, r io.Reader, size int64) error {
	var buf bytes.Buffer

	w, err := age.Encrypt(&buf, e.recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	written, err := io.Copy(w, r)
	if err != nil {
		return fmt.Errorf("encrypting report: %w", err)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return e.inner.Put(name+".age", &buf, int64(buf.Len()))
}

// Get retrieves the stored ciphertext. It is not decrypted; the client does
// not hold the identity.
func (e *EncryptedArchive) Get(name string, w io.Writer) error {
	return e.inner.Get(name+".age", w)
}

// List returns the names of all archived reports as stored (with the ".age"
// suffix).
func (e *EncryptedArchive) List() ([]string, error) {
	return e.inner.List()
}

// ValidateSetup defers to the wrapped archive.
func (e *EncryptedArchive) ValidateSetup() error {
	return e.inner.ValidateSetup()
}

// Compile-time check that EncryptedArchive implements the Archive interface
var _ fleet.Archive = (*EncryptedArchive)(nil)
