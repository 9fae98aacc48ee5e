// Package archive files downloaded trip reports for audit. Backends follow
// the same tagged-union config pattern as the rest of the client: an
// in-memory archive for tests, a filesystem archive for day-to-day use, and
// an S3 archive for shared storage.
package archive

import (
	"fmt"

	"traki/internal/config"
	"traki/internal/fleet"
)

// NewArchiveFromConfig creates an Archive implementation based on the
// archive config type, wrapped with at-rest encryption when configured.
func NewArchiveFromConfig(cfg config.ArchiveConfig, enc config.EncryptionConfig) (fleet.Archive, error) {
	var (
		a   fleet.Archive
		err error
	)

	switch cfg.Type {
	case "memory":
		a = NewMemoryArchive()
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem archive requires fs_root to be set")
		}
		a, err = NewFileSystemArchive(cfg.FSRoot)
		if err != nil {
			return nil, fmt.Errorf("creating filesystem archive: %w", err)
		}
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 archive requires s3_bucket to be set")
		}
		a, err = NewS3Archive(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating s3 archive: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}

	switch enc.Type {
	case "", "none":
		return a, nil
	case "age":
		return NewEncryptedArchive(a, enc.Recipient)
	default:
		return nil, fmt.Errorf("unknown encryption type: %s", enc.Type)
	}
}
