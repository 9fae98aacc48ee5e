package archive

import (
	"testing"

	"filippo.io/age"

	"traki/internal/config"
)

func TestNewArchiveFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		a, err := NewArchiveFromConfig(config.ArchiveConfig{Type: "memory"}, config.EncryptionConfig{})
		if err != nil {
			t.Fatalf("factory failed: %v", err)
		}
		if _, ok := a.(*MemoryArchive); !ok {
			t.Errorf("got %T, want *MemoryArchive", a)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		a, err := NewArchiveFromConfig(
			config.ArchiveConfig{Type: "filesystem", FSRoot: t.TempDir()},
			config.EncryptionConfig{Type: "none"},
		)
		if err != nil {
			t.Fatalf("factory failed: %v", err)
		}
		if _, ok := a.(*FileSystemArchive); !ok {
			t.Errorf("got %T, want *FileSystemArchive", a)
		}
	})

	t.Run("filesystem requires a root", func(t *testing.T) {
		if _, err := NewArchiveFromConfig(config.ArchiveConfig{Type: "filesystem"}, config.EncryptionConfig{}); err == nil {
			t.Error("missing fs_root accepted")
		}
	})

	t.Run("s3 requires a bucket", func(t *testing.T) {
		if _, err := NewArchiveFromConfig(config.ArchiveConfig{Type: "s3"}, config.EncryptionConfig{}); err == nil {
			t.Error("missing s3_bucket accepted")
		}
	})

	t.Run("age encryption wraps the backend", func(t *testing.T) {
		identity, err := age.GenerateX25519Identity()
		if err != nil {
			t.Fatal(err)
		}
		a, err := NewArchiveFromConfig(
			config.ArchiveConfig{Type: "memory"},
			config.EncryptionConfig{Type: "age", Recipient: identity.Recipient().String()},
		)
		if err != nil {
			t.Fatalf("factory failed: %v", err)
		}
		if _, ok := a.(*EncryptedArchive); !ok {
			t.Errorf("got %T, want *EncryptedArchive", a)
		}
	})

	t.Run("unknown types are rejected", func(t *testing.T) {
		if _, err := NewArchiveFromConfig(config.ArchiveConfig{Type: "tape"}, config.EncryptionConfig{}); err == nil {
			t.Error("unknown archive type accepted")
		}
		if _, err := NewArchiveFromConfig(config.ArchiveConfig{Type: "memory"}, config.EncryptionConfig{Type: "rot13"}); err == nil {
			t.Error("unknown encryption type accepted")
		}
	})
}
